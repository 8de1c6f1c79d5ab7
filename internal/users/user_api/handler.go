package user_api

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

type UserService interface {
	Create(ctx context.Context, body map[string]interface{}) (*models.User, error)
	Update(ctx context.Context, userID int64, body map[string]interface{}) (*models.User, error)
}

type Handler struct {
	UserService UserService
	Logger      *logger.Logger
}

func NewHandler(service UserService, log *logger.Logger) *Handler {
	return &Handler{UserService: service, Logger: log}
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := utils.DecodeBody(r)
	if err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.UserService.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user.Summary())
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	body, err := utils.DecodeBody(r)
	if err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.UserService.Update(r.Context(), userID, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, user.Summary())
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errs.HTTPStatus(err) == http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s %s failed: %v", r.Method, r.URL.Path, err))
	}
	utils.WriteError(w, err)
}
