package handlers

import (
	"net/http"
	"runtime"

	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// ClosestRequest represents a nearest-neighbor request. Metric defaults to
// adjusted.
type ClosestRequest struct {
	Query      string   `json:"query"`
	References []string `json:"references"`
	Metric     string   `json:"metric"`
}

// ClosestResponse represents the response for a nearest-neighbor search.
type ClosestResponse struct {
	Query    string   `json:"query"`
	Metric   string   `json:"metric"`
	Distance float64  `json:"distance"`
	Count    int      `json:"count"`
	Matches  []string `json:"matches"`
}

// ClosestHandler handles nearest-neighbor requests.
func ClosestHandler(w http.ResponseWriter, r *http.Request) {
	var req ClosestRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Metric == "" {
		req.Metric = cdrflow.Adjusted
	}

	closest, err := cdrflow.FindClosestParallel(r.Context(), req.Query, req.References, req.Metric, runtime.NumCPU())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, ClosestResponse{
		Query:    closest.Query,
		Metric:   closest.Metric,
		Distance: closest.Distance.Float64(),
		Count:    closest.Count,
		Matches:  closest.Matches,
	})
}
