package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestWriteErrorValidationList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errs.NewValidation("titulo is a required field", "banner_id is a required field"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":["titulo is a required field","banner_id is a required field"]}`, rec.Body.String())
}

func TestWriteErrorSingleMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errs.NewPastDate("Past dates are not permitted"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Past dates are not permitted"}`, rec.Body.String())
}

func TestWriteErrorHidesInternalFailures(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestWriteEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteEmpty(rec, http.StatusOK)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
