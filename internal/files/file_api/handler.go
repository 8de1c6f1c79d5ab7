package file_api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/utils"
)

type FileService interface {
	Store(ctx context.Context, originalName string, content io.Reader) (*models.File, error)
}

type Handler struct {
	FileService FileService
	MaxBytes    int64
	Logger      *logger.Logger
}

func NewHandler(service FileService, maxUploadMB int, log *logger.Logger) *Handler {
	return &Handler{FileService: service, MaxBytes: int64(maxUploadMB) << 20, Logger: log}
}

// UploadFile expects a multipart form with the image in the "file" field.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	src, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("file must be at most %d bytes", h.MaxBytes))
			return
		}
		utils.WriteError(w, errs.NewValidation("file is a required field"))
		return
	}
	defer src.Close()

	file, err := h.FileService.Store(r.Context(), header.Filename, src)
	if err != nil {
		if errs.HTTPStatus(err) == http.StatusInternalServerError {
			h.Logger.Error("API", fmt.Sprintf("POST /files failed: %v", err))
		}
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, file)
}
