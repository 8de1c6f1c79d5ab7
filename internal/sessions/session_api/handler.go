package session_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/utils"
)

type SessionService interface {
	Create(ctx context.Context, body map[string]interface{}) (*models.SessionResponse, error)
	Destroy(ctx context.Context, claims *auth.Claims) error
}

type Handler struct {
	SessionService SessionService
	Logger         *logger.Logger
}

func NewHandler(service SessionService, log *logger.Logger) *Handler {
	return &Handler{SessionService: service, Logger: log}
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := utils.DecodeBody(r)
	if err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.SessionService.Create(r.Context(), body)
	if err != nil {
		if errs.HTTPStatus(err) == http.StatusInternalServerError {
			h.Logger.Error("API", fmt.Sprintf("POST /sessions failed: %v", err))
		}
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) DestroySession(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	if err := h.SessionService.Destroy(r.Context(), claims); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DELETE /sessions failed: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteEmpty(w, http.StatusOK)
}
