package rest

import (
	"net/http"

	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"
)

type AuthHandler struct {
	registerUC usecases_port.RegisterUserUseCasePort
	loginUC    usecases_port.LoginUserUseCasePort
}

func NewAuthHandler(registerUC usecases_port.RegisterUserUseCasePort, loginUC usecases_port.LoginUserUseCasePort) *AuthHandler {
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "Register")

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	var req RegisterRequest
	if err := decodeJSON(body, &req); err != nil {
		respondError(w, logger, err, "")
		return
	}

	user, token, err := h.registerUC.Execute(r.Context(), usecases_port.RegisterUserRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(w, logger, err, "Failed to register user")
		return
	}

	logger.Info("User registered", port.Fields{"user_id": user.ID.String()})
	RespondWithJSON(w, http.StatusCreated, toAuthResponse(user, token))
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "Login")

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	var req LoginRequest
	if err := decodeJSON(body, &req); err != nil {
		respondError(w, logger, err, "")
		return
	}

	user, token, err := h.loginUC.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, logger, err, "Failed to log in")
		return
	}
	RespondWithJSON(w, http.StatusOK, toAuthResponse(user, token))
}
