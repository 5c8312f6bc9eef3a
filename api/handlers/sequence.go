// Package handlers provides HTTP handlers for the cdrflow API.
package handlers

import (
	"net/http"

	"github.com/aria-lang/cdrflow-go/pkg/cdrflow"
)

// FragmentRequest represents a request with a single fragment.
type FragmentRequest struct {
	Sequence string `json:"sequence"`
}

// ValidateResponse represents the response for validation.
type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateHandler reports whether a fragment is valid.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req FragmentRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := cdrflow.NewFragment(req.Sequence)
	if err != nil {
		writeJSON(w, ValidateResponse{Valid: false, Error: err.Error()})
		return
	}

	writeJSON(w, ValidateResponse{Valid: true})
}

// FragmentInfoResponse represents the response for fragment info.
type FragmentInfoResponse struct {
	Sequence    string         `json:"sequence"`
	Length      int            `json:"length"`
	HasUnknown  bool           `json:"has_unknown"`
	Composition map[string]int `json:"composition"`
}

// FragmentInfoHandler describes a fragment.
func FragmentInfoHandler(w http.ResponseWriter, r *http.Request) {
	var req FragmentRequest
	if !decode(w, r, &req) {
		return
	}

	frag, err := cdrflow.NewFragment(req.Sequence)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	composition := make(map[string]int)
	for c, n := range frag.Composition() {
		composition[string(c)] = n
	}

	writeJSON(w, FragmentInfoResponse{
		Sequence:    frag.Residues,
		Length:      frag.Len(),
		HasUnknown:  frag.HasUnknown(),
		Composition: composition,
	})
}
