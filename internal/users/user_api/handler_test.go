package user_api_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/store/memory"
	"github.com/aleodoni/meetapp/internal/users/user_api"
	users "github.com/aleodoni/meetapp/internal/users/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler() *user_api.Handler {
	return user_api.NewHandler(users.NewUserService(memory.New(), logger.Discard()), logger.Discard())
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreateUser(t *testing.T) {
	h := newHandler()

	rec := post(h.CreateUser, `{"name":"Ana","email":"ana@meetapp.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"ana@meetapp.com"}`, rec.Body.String())

	rec = post(h.CreateUser, `{"name":"Ana","email":"ana@meetapp.com","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User already exists"}`, rec.Body.String())
}

func TestCreateUserValidation(t *testing.T) {
	h := newHandler()

	rec := post(h.CreateUser, `{"email":"ana@meetapp.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is a required field")
	assert.Contains(t, rec.Body.String(), "password is a required field")

	rec = post(h.CreateUser, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestUpdateUserRequiresClaims(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPut, "/users", bytes.NewBufferString(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	h.UpdateUser(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateUserName(t *testing.T) {
	h := newHandler()
	require.Equal(t, http.StatusOK, post(h.CreateUser, `{"name":"Ana","email":"ana@meetapp.com","password":"secret123"}`).Code)

	req := httptest.NewRequest(http.MethodPut, "/users", bytes.NewBufferString(`{"name":"Ana Maria"}`))
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{UserID: 1}))
	rec := httptest.NewRecorder()
	h.UpdateUser(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Ana Maria","email":"ana@meetapp.com"}`, rec.Body.String())
}
