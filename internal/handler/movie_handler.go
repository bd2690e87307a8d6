package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/repository"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler { return &MovieHandler{svc: s} }

// @Summary List movies (filtered, sorted, paginated)
// @Tags movies
// @Produce json
// @Param title query string false "exact title"
// @Param genre query string false "genre, repeatable (all must match)"
// @Param year query int false "release year"
// @Param actor query string false "actor full name"
// @Param director query string false "director full name"
// @Param sort query string false "sort field"
// @Param order query string false "asc|desc (default desc)"
// @Param fields query string false "comma-separated projection"
// @Param page query int false "page index (default 0)"
// @Param page_size query int false "page size (default 20)"
// @Success 200 {object} map[string]interface{}
// @Router /api/movies [get]
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	year, _ := strconv.Atoi(params.Get("year"))
	page, _ := strconv.ParseInt(params.Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(params.Get("page_size"), 10, 64)

	q := repository.MovieQuery{
		Title:       params.Get("title"),
		Genres:      params["genre"],
		ReleaseYear: year,
		Actor:       params.Get("actor"),
		Director:    params.Get("director"),
		SortField:   params.Get("sort"),
		SortDesc:    params.Get("order") != "asc",
	}
	if fields := params.Get("fields"); fields != "" {
		q.Projection = strings.Split(fields, ",")
	}

	result, err := h.svc.List(r.Context(), q, page, pageSize)
	if err != nil {
		writeErr(w, err)
		return
	}
	if result.Items == nil {
		result.Items = []models.MovieDoc{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"movies": result.Items,
		"total":  result.Total,
	})
}

// @Summary Get one movie
// @Tags movies
// @Produce json
// @Param id path string true "movie id"
// @Success 200 {object} models.MovieDoc
// @Failure 404 {string} string "not found"
// @Router /api/movies/{id} [get]
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
