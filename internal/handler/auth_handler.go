package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SugarStoneMaster/MyMovieList/internal/models"
	"github.com/SugarStoneMaster/MyMovieList/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler { return &AuthHandler{svc: s} }

// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "user"
// @Success 201 {object} models.UserDoc
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "credentials"
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, u, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}

// @Summary Sign in with Apple (find-or-create by email)
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.AppleSignInRequest true "identity"
// @Success 200 {object} map[string]interface{}
// @Router /api/user/apple_sign_in [post]
func (h *AuthHandler) AppleSignIn(w http.ResponseWriter, r *http.Request) {
	var req models.AppleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, u, err := h.svc.AppleSignIn(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
}
