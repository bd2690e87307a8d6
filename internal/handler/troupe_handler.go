package handler

import (
	"net/http"
	"strconv"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/go-chi/chi/v5"
)

type TroupeHandler struct {
	svc *service.TroupeService
}

func NewTroupeHandler(s *service.TroupeService) *TroupeHandler { return &TroupeHandler{svc: s} }

// @Summary Get a cast/crew member
// @Tags troupe
// @Produce json
// @Param id path string true "troupe id"
// @Success 200 {object} models.TroupeDoc
// @Failure 404 {string} string "not found"
// @Router /api/troupe/{id} [get]
func (h *TroupeHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTroupe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// @Summary List cast/crew members
// @Tags troupe
// @Produce json
// @Param type query string false "actor|director"
// @Param page query int false "page index"
// @Param page_size query int false "page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/troupe [get]
func (h *TroupeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 64)

	result, err := h.svc.List(r.Context(), r.URL.Query().Get("type"), page, pageSize)
	if err != nil {
		writeErr(w, err)
		return
	}
	if result.Items == nil {
		result.Items = []models.TroupeDoc{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"troupe": result.Items,
		"total":  result.Total,
	})
}
