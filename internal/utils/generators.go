package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateFileName returns a random storage name that keeps the extension
// of the uploaded file.
func GenerateFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}

func GenerateTokenID() string {
	return uuid.NewString()
}
