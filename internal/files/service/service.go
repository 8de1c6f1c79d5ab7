package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/utils"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type FileDBLayer interface {
	CreateFile(ctx context.Context, file *models.File) error
}

type FileService struct {
	DB        FileDBLayer
	UploadDir string
	FileURL   func(path string) string
	Logger    *logger.Logger
	Now       func() time.Time
}

func NewFileService(db FileDBLayer, uploadDir string, fileURL func(string) string, log *logger.Logger) *FileService {
	return &FileService{DB: db, UploadDir: uploadDir, FileURL: fileURL, Logger: log, Now: time.Now}
}

// Store saves an uploaded banner under a random name and records it.
func (s *FileService) Store(ctx context.Context, originalName string, content io.Reader) (*models.File, error) {
	originalName = filepath.Base(strings.TrimSpace(originalName))
	if originalName == "." || originalName == "" {
		return nil, errs.NewValidation("file is a required field")
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(originalName))] {
		return nil, errs.NewValidation("file must be an image (jpg, jpeg, png, gif or webp)")
	}

	if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	storedName := utils.GenerateFileName(originalName)
	fullPath := filepath.Join(s.UploadDir, storedName)

	out, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		os.Remove(fullPath)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	now := s.Now()
	file := &models.File{Name: originalName, Path: storedName, CreatedAt: now, UpdatedAt: now}
	if err := s.DB.CreateFile(ctx, file); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("store file: %w", err)
	}

	file.URL = s.FileURL(storedName)
	s.Logger.Info("FILE", fmt.Sprintf("Stored %s as %s (id %d)", originalName, storedName, file.ID))
	return file, nil
}
