package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/splitpay/internal/auth"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := a.authenticator.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	token, err := a.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	respondWithJSON(w, http.StatusCreated, authResponse{
		Token:       token,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := a.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)
		respondWithError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := a.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	respondWithJSON(w, http.StatusOK, authResponse{
		Token:       token,
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}
