package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNotSignedIn = errors.New("sign in required")

// Error is returned for transport failures (Status 0) and non-2xx
// responses. Message is what gets shown to the user.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsStatus reports whether err is an HTTP error with the given status.
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// errorFromBody applies the API's error convention: a JSON body with a
// message field, else the raw text of a non-JSON body, else a generic
// status line.
func errorFromBody(status int, body []byte) *Error {
	text := strings.TrimSpace(string(body))
	if json.Valid(body) {
		var parsed struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
			return &Error{Status: status, Message: parsed.Message}
		}
	} else if text != "" {
		return &Error{Status: status, Message: text}
	}
	return &Error{Status: status, Message: fmt.Sprintf("HTTP error! Status: %d", status)}
}
