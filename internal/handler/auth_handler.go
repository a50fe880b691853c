package handler

import (
	"errors"
	"net/http"

	"go-movie-api/internal/model"
	"go-movie-api/internal/service"
)

// loginFailedMessage is shared by unknown users and wrong passwords.
const loginFailedMessage = "Incorrect username or password"

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login answers with the bare {user, token} body rather than the API envelope.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, token, err := h.service.Login(r)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, model.LoginResponse{User: &user, Token: token.Value})
	case errors.Is(err, model.ErrStoreUnavailable):
		status, body := classifyError(err)
		writeJSON(w, status, model.LoginResponse{Message: body.Message})
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, model.LoginResponse{Message: loginFailedMessage})
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, model.LoginResponse{Message: "Invalid request body"})
	default:
		status, body := classifyError(err)
		writeJSON(w, status, model.LoginResponse{Message: body.Message})
	}
}
