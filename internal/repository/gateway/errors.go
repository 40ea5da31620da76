package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the gateway.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("gateway %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports a missing, invalid or expired token.
func (e *Error) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// IsForbidden reports a row-level security or permission denial.
func (e *Error) IsForbidden() bool { return e.Status == http.StatusForbidden }

// errorBody covers both auth (GoTrue) and row API (PostgREST) error shapes.
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
}

func parseError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, m := range []string{eb.ErrorDescription, eb.Msg, eb.Message, eb.Error} {
			if m != "" {
				e.Message = m
				break
			}
		}
		switch c := eb.Code.(type) {
		case string:
			e.Code = c
		case float64:
			e.Code = fmt.Sprintf("%d", int(c))
		}
		if eb.ErrorCode != "" {
			e.Code = eb.ErrorCode
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// AsError unwraps a gateway *Error from err.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}
