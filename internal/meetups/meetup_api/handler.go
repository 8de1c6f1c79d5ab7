package meetup_api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/utils"
	"github.com/go-chi/chi/v5"
)

type MeetupService interface {
	Create(ctx context.Context, userID int64, body map[string]interface{}) (*models.Meetup, error)
	Update(ctx context.Context, id, userID int64, body map[string]interface{}) (*models.Meetup, error)
	Delete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, userID int64, page int) ([]models.MeetupListItem, error)
}

type Handler struct {
	MeetupService MeetupService
	Logger        *logger.Logger
}

func NewHandler(service MeetupService, log *logger.Logger) *Handler {
	return &Handler{MeetupService: service, Logger: log}
}

// RegisterRoutes mounts the meetup endpoints. The router must already sit
// behind auth.Middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/meetups", func(r chi.Router) {
		r.Get("/", h.ListMeetups)
		r.Post("/", h.CreateMeetup)
		r.Put("/{id}", h.UpdateMeetup)
		r.Delete("/{id}", h.DeleteMeetup)
	})
}

func (h *Handler) CreateMeetup(w http.ResponseWriter, r *http.Request) {
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

	meetup, err := h.MeetupService.Create(r.Context(), userID, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, meetup)
}

func (h *Handler) UpdateMeetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.WriteError(w, errs.NewNotFound("Meetup"))
		return
	}

	body, err := utils.DecodeBody(r)
	if err != nil {
		utils.WriteErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	meetup, err := h.MeetupService.Update(r.Context(), id, userID, body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, meetup)
}

func (h *Handler) DeleteMeetup(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.WriteError(w, errs.NewNotFound("Meetup"))
		return
	}

	if err := h.MeetupService.Delete(r.Context(), id, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteEmpty(w, http.StatusOK)
}

func (h *Handler) ListMeetups(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		utils.WriteErrorMessage(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	page := utils.ParsePage(r.URL.Query().Get("page"))
	items, err := h.MeetupService.List(r.Context(), userID, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errs.HTTPStatus(err) == http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s %s failed: %v", r.Method, r.URL.Path, err))
	} else {
		h.Logger.Debug("API", fmt.Sprintf("%s %s rejected: %v", r.Method, r.URL.Path, err))
	}
	utils.WriteError(w, err)
}
