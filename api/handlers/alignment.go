package handlers

import (
	"net/http"

	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// AlignmentRequest represents an alignment request.
type AlignmentRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	AlignedSeq1 string  `json:"aligned_seq1"`
	AlignedSeq2 string  `json:"aligned_seq2"`
	Score       int     `json:"score"`
	Length      int     `json:"length"`
	Identity    float64 `json:"identity"`
	CIGAR       string  `json:"cigar"`
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
	GapOpenings int     `json:"gap_openings"`
}

// AlignHandler handles global alignment requests.
func AlignHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}

	alignment, err := cdrflow.Align(req.Sequence1, req.Sequence2)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, AlignmentResponse{
		AlignedSeq1: alignment.AlignedSeq1,
		AlignedSeq2: alignment.AlignedSeq2,
		Score:       alignment.Score,
		Length:      alignment.Length(),
		Identity:    alignment.Identity(),
		CIGAR:       alignment.ToCIGAR(),
		Matches:     alignment.MatchCount(),
		Mismatches:  alignment.MismatchCount(),
		Gaps:        alignment.TotalGaps(),
		GapOpenings: alignment.GapOpenings(),
	})
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// AlignmentScoreHandler handles alignment score requests.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	if !decode(w, r, &req) {
		return
	}

	alignment, err := cdrflow.Align(req.Sequence1, req.Sequence2)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, ScoreResponse{Score: alignment.Score})
}
