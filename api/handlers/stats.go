package handlers

import (
	"net/http"

	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// StatsRequest represents a position statistics request. Threshold
// defaults to 0.5.
type StatsRequest struct {
	Query      string   `json:"query"`
	References []string `json:"references"`
	Threshold  float64  `json:"threshold"`
}

// StatsResponse holds one symbol count map per query position.
type StatsResponse struct {
	Query     string           `json:"query"`
	Threshold float64          `json:"threshold"`
	Accepted  int              `json:"accepted"`
	Positions []map[string]int `json:"positions"`
}

// StatsHandler handles position statistics requests.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	var req StatsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Threshold == 0 {
		req.Threshold = cdrflow.DefaultConfig.Threshold
	}

	ps, err := cdrflow.RegionStats(req.Query, req.References, req.Threshold)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	positions := make([]map[string]int, len(ps.Positions))
	for i, f := range ps.Positions {
		positions[i] = make(map[string]int, len(f))
		for c, n := range f {
			positions[i][string(c)] = n
		}
	}

	writeJSON(w, StatsResponse{
		Query:     ps.Query,
		Threshold: ps.Threshold,
		Accepted:  ps.Accepted,
		Positions: positions,
	})
}
