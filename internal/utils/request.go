package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

var ErrInvalidBody = errors.New("invalid request body")

// DecodeBody reads a JSON object from the request. An empty body decodes to
// an empty map so schema validation can report the missing fields.
func DecodeBody(r *http.Request) (map[string]interface{}, error) {
	body := map[string]interface{}{}
	if r.Body == nil {
		return body, nil
	}

	err := json.NewDecoder(r.Body).Decode(&body)
	if errors.Is(err, io.EOF) {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, ErrInvalidBody
	}
	if body == nil {
		body = map[string]interface{}{}
	}
	return body, nil
}

// ParseID parses a positive integer path parameter.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParsePage reads a 1-based page number, falling back to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
