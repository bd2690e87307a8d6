package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler { return &ReviewHandler{svc: s} }

// @Summary List a movie's reviews (paginated, newest first)
// @Tags reviews
// @Produce json
// @Param id path string true "movie id"
// @Param page query int false "page index (default 0)"
// @Param page_size query int false "page size (default 20)"
// @Success 200 {object} map[string]interface{}
// @Router /api/movies/{id}/reviews [get]
func (h *ReviewHandler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 64)

	result, err := h.svc.ListByMovie(r.Context(), chi.URLParam(r, "id"), page, pageSize)
	if err != nil {
		writeErr(w, err)
		return
	}
	if result.Items == nil {
		result.Items = []models.ReviewDoc{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": result.Items,
		"total":   result.Total,
	})
}

// @Summary Add a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "movie id"
// @Param body body models.AddReviewRequest true "review"
// @Success 201 {object} map[string]interface{}
// @Router /api/movies/{id}/reviews [post]
func (h *ReviewHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.svc.AddReview(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Successfully added review.",
		"review_id": id.Hex(),
	})
}

// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "review id"
// @Param body body models.UpdateReviewRequest true "changed fields"
// @Success 200 {object} map[string]interface{}
// @Router /api/reviews/{id} [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.UpdateReview(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationMessage(res,
		"Successfully updated review.",
		"No review was updated.",
	))
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Live review feed for a movie (WebSocket)
// @Tags reviews
// @Param id path string true "movie id"
// @Router /api/movies/{id}/ws/reviews [get]
func (h *ReviewHandler) Feed(w http.ResponseWriter, r *http.Request) {
	movieID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid movie id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch, cancel := h.svc.Feed().Subscribe(movieID)
	defer cancel()

	_ = conn.WriteJSON(map[string]any{"type": "start"})

	// Reader goroutine: its only job is to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap := <-ch:
			if err := conn.WriteJSON(map[string]any{"type": "review", "review": snap}); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
