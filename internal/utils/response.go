package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aleodoni/meetapp/internal/errs"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error []string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// WriteEmpty answers with a status and no body.
func WriteEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteError renders a domain error as {"error": ...}. Validation errors
// carry the full message list; unclassified errors are hidden behind a
// generic 500 message.
func WriteError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)

	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		WriteJSON(w, status, ValidationErrorResponse{Error: validation.Errors})
		return
	}

	if status == http.StatusInternalServerError {
		WriteErrorMessage(w, status, "Internal server error")
		return
	}

	WriteErrorMessage(w, status, err.Error())
}
