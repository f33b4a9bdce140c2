package handler

import (
	"net/http"

	"github.com/fitbloom/fitbloom/internal/ctxkeys"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	user, token, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, "failed to register user", "email", req.Email)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err, "failed to log in", "email", req.Email)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// UserData returns the authenticated user's account.
func (h *AuthHandler) UserData(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	user, err := h.userService.ByID(userID)
	if err != nil {
		handleServiceError(w, err, "failed to get user", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req updateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Email)
	if err != nil {
		handleServiceError(w, err, "failed to update user", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
