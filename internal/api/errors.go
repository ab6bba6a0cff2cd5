package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Message    string // from a {"message"} or {"error"} body, if any
}

func (e *Error) Error() string {
	s := fmt.Sprintf("request failed with status %d", e.StatusCode)
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// errorBodyLimit caps how much of an error body we read.
const errorBodyLimit = 4 << 10

func newError(method, path string, resp *http.Response) *Error {
	e := &Error{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	if err != nil || len(b) == 0 {
		return e
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		e.Message = strings.TrimSpace(body.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(body.Error)
		}
	}
	return e
}
