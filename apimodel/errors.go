package apimodel

import (
	"encoding/json"
	"fmt"
)

// ErrorBody is the backend's structured error payload. Different endpoints use
// different fields: simplejwt rejections carry "detail", the password reset
// views carry "error", and registration failures carry per-field serializer
// error lists.
type ErrorBody struct {
	Detail   string   `json:"detail,omitempty"`
	ErrorMsg string   `json:"error,omitempty"`
	Message  string   `json:"message,omitempty"`
	Username []string `json:"username,omitempty"`
	Email    []string `json:"email,omitempty"`
	Password []string `json:"password,omitempty"`
}

// FirstMessage extracts a user-displayable message, trying field-specific
// validation messages first, then the generic detail fields, in a fixed
// priority order. Returns fallback when the body has no recognizable field.
func (b ErrorBody) FirstMessage(fallback string) string {
	switch {
	case len(b.Username) > 0:
		return b.Username[0]
	case len(b.Email) > 0:
		return b.Email[0]
	case len(b.Password) > 0:
		return b.Password[0]
	case b.Detail != "":
		return b.Detail
	case b.ErrorMsg != "":
		return b.ErrorMsg
	case b.Message != "":
		return b.Message
	}
	return fallback
}

// APIError is a non-auth failure response from the backend (4xx other than
// 401, or 5xx). It propagates unchanged to the caller.
type APIError struct {
	StatusCode int
	Body       ErrorBody
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body.FirstMessage("no error detail"))
}

// ParseErrorBody decodes a backend error payload, tolerating bodies that are
// not valid JSON.
func ParseErrorBody(data []byte) ErrorBody {
	var body ErrorBody
	_ = json.Unmarshal(data, &body)
	return body
}
