package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aleodoni/meetapp/internal/api"
	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/files/file_api"
	files "github.com/aleodoni/meetapp/internal/files/service"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/meetups/meetup_api"
	meetups "github.com/aleodoni/meetapp/internal/meetups/service"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/sessions/session_api"
	sessions "github.com/aleodoni/meetapp/internal/sessions/service"
	"github.com/aleodoni/meetapp/internal/store/memory"
	"github.com/aleodoni/meetapp/internal/users/user_api"
	users "github.com/aleodoni/meetapp/internal/users/service"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	log := logger.Discard()
	store := memory.New()
	uploadDir := t.TempDir()
	fileURL := func(path string) string { return "http://localhost:3333/files/" + path }

	tokens, err := auth.NewTokenManager("router-test-secret", time.Hour, "meetapp")
	require.NoError(t, err)
	revocations := auth.NewRedisRevocationStore(client)

	return api.NewRouter(api.Deps{
		Users:       user_api.NewHandler(users.NewUserService(store, log), log),
		Sessions:    session_api.NewHandler(sessions.NewSessionService(store, tokens, revocations, log), log),
		Files:       file_api.NewHandler(files.NewFileService(store, uploadDir, fileURL, log), 1, log),
		Meetups:     meetup_api.NewHandler(meetups.NewMeetupService(store, nil, log, fileURL), log),
		Tokens:      tokens,
		Revocations: revocations,
		UploadDir:   uploadDir,
		Origins:     []string{"*"},
		Logger:      log,
	})
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler, token, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newServer(t)
	rec := call(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/meetups"},
		{http.MethodPost, "/meetups"},
		{http.MethodPut, "/meetups/1"},
		{http.MethodDelete, "/meetups/1"},
		{http.MethodPut, "/users"},
		{http.MethodDelete, "/sessions"},
		{http.MethodPost, "/files"},
	} {
		rec := call(t, h, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
		assert.JSONEq(t, `{"error":"Token not provided"}`, rec.Body.String())
	}

	rec := call(t, h, http.MethodGet, "/meetups", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token invalid"}`, rec.Body.String())
}

func TestMeetupFlow(t *testing.T) {
	h := newServer(t)

	rec := call(t, h, http.MethodPost, "/users", "", map[string]interface{}{
		"name": "Ana", "email": "ana@meetapp.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodPost, "/sessions", "", map[string]interface{}{
		"email": "ana@meetapp.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session models.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "Ana", session.User.Name)

	rec = upload(t, h, session.Token, "banner.png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var banner models.File
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banner))
	assert.Equal(t, "http://localhost:3333/files/"+banner.Path, banner.URL)

	rec = call(t, h, http.MethodGet, "/files/"+banner.Path, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	when := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	rec = call(t, h, http.MethodPost, "/meetups", session.Token, map[string]interface{}{
		"titulo":      "Go Meetup",
		"descricao":   "Talks about Go",
		"localizacao": "Curitiba",
		"data_hora":   when.Format(time.RFC3339),
		"banner_id":   banner.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/meetups?page=1", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.MeetupListItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Go Meetup", list[0].Title)
	require.NotNil(t, list[0].Organizer)
	assert.Equal(t, "Ana", list[0].Organizer.Name)
	require.NotNil(t, list[0].Banner)
	assert.Equal(t, banner.URL, list[0].Banner.URL)

	rec = call(t, h, http.MethodDelete, "/sessions", session.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, "/meetups", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Token invalid"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/meetups", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
