package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SugarStoneMaster/MyMovieList/internal/repository"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the service error taxonomy onto status codes:
// validation and bad queries are the client's fault, missing documents
// are 404, everything else is a store failure.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, repository.ErrBadQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// mutationMessage keeps "document changed" and "matched nothing"
// distinguishable in every mutation response.
func mutationMessage(res repository.MutationResult, changed, unchanged string) map[string]any {
	msg := changed
	if !res.Modified {
		msg = unchanged
	}
	return map[string]any{
		"message":  msg,
		"matched":  res.Matched,
		"modified": res.Modified,
	}
}
