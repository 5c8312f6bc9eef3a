package handlers

import (
	"net/http"

	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// DistanceRequest represents a distance request. Metric defaults to
// adjusted.
type DistanceRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	Metric    string `json:"metric"`
}

// DistanceResponse represents the response for a distance. Numerator and
// Denominator give the exact value.
type DistanceResponse struct {
	Metric      string  `json:"metric"`
	Distance    float64 `json:"distance"`
	Numerator   int     `json:"numerator"`
	Denominator int     `json:"denominator"`
}

// DistanceHandler handles distance requests.
func DistanceHandler(w http.ResponseWriter, r *http.Request) {
	var req DistanceRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Metric == "" {
		req.Metric = cdrflow.Adjusted
	}

	m, err := cdrflow.NewMetric(req.Metric)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := m.Distance(req.Sequence1, req.Sequence2)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, DistanceResponse{
		Metric:      m.Name(),
		Distance:    d.Float64(),
		Numerator:   d.Num,
		Denominator: d.Den,
	})
}
