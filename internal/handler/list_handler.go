package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/go-chi/chi/v5"
)

type ListHandler struct {
	svc *service.ListService
}

func NewListHandler(s *service.ListService) *ListHandler { return &ListHandler{svc: s} }

// @Summary Add a movie to the user's list
// @Tags user-list
// @Accept json
// @Produce json
// @Param body body models.AddListEntryRequest true "entry"
// @Success 200 {object} map[string]interface{}
// @Router /api/user/list [post]
func (h *ListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddListEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Add(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationMessage(res,
		"Successfully added movie.",
		"Movie already in list.",
	))
}

// @Summary Update watched/favourite flags of a list entry
// @Tags user-list
// @Accept json
// @Produce json
// @Param body body models.UpdateListEntryRequest true "flags"
// @Success 200 {object} map[string]interface{}
// @Router /api/user/list [put]
func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateListEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Update(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationMessage(res,
		"Successfully updated the movie's watched status.",
		"No documents were updated.",
	))
}

// @Summary Remove a movie from the user's list
// @Tags user-list
// @Produce json
// @Param userId path string true "user id"
// @Param movieId path string true "movie id"
// @Success 200 {object} map[string]interface{}
// @Router /api/user/list/{userId}/{movieId} [delete]
func (h *ListHandler) Remove(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Remove(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "movieId"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationMessage(res,
		"Movie removed successfully.",
		"Movie not found in user's list.",
	))
}

// @Summary List the user's entries matching both flags
// @Tags user-list
// @Produce json
// @Param userId path string true "user id"
// @Param watched query bool false "watched filter"
// @Param favourite query bool false "favourite filter"
// @Success 200 {array} models.ListEntry
// @Router /api/user/list/{userId} [get]
func (h *ListHandler) Entries(w http.ResponseWriter, r *http.Request) {
	watched := r.URL.Query().Get("watched") == "true"
	favourite := r.URL.Query().Get("favourite") == "true"

	entries, err := h.svc.Entries(r.Context(), chi.URLParam(r, "userId"), watched, favourite)
	if err != nil {
		writeErr(w, err)
		return
	}
	if entries == nil {
		entries = []models.ListEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
