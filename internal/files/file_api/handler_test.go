package file_api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleodoni/meetapp/internal/files/file_api"
	files "github.com/aleodoni/meetapp/internal/files/service"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *file_api.Handler {
	svc := files.NewFileService(memory.New(), t.TempDir(), func(path string) string {
		return "http://localhost:3333/files/" + path
	}, logger.Discard())
	return file_api.NewHandler(svc, 1, logger.Discard())
}

func multipartRequest(t *testing.T, field, name string, content []byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadFile(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()

	h.UploadFile(rec, multipartRequest(t, "file", "banner.png", []byte("png")))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var file models.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &file))
	assert.Equal(t, int64(1), file.ID)
	assert.Equal(t, "banner.png", file.Name)
	assert.Equal(t, "http://localhost:3333/files/"+file.Path, file.URL)
}

func TestUploadFileMissingField(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()

	h.UploadFile(rec, multipartRequest(t, "other", "banner.png", []byte("png")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":["file is a required field"]}`, rec.Body.String())
}

func TestUploadFileWrongType(t *testing.T) {
	h := newHandler(t)
	rec := httptest.NewRecorder()

	h.UploadFile(rec, multipartRequest(t, "file", "notes.txt", []byte("hi")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
