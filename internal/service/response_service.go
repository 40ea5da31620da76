package service

import (
	"errors"
	"time"
)

// Shared service errors.
var (
	ErrEmailConfirmationRequired = errors.New(`account created but no session was issued: "Confirm Email" is enabled in the gateway's email provider settings; confirm the address from the inbox or disable the setting, then sign in`)
	ErrSuperseded                = errors.New("load superseded by a newer request")
	ErrAdminUnavailable          = errors.New("admin user API unavailable: service role key not configured")
)

// ValidationError is a user-correctable input problem detected before any
// gateway call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Paging bounds a sequential paginated fetch.
type Paging struct {
	PageSize int // rows per request
	MaxRows  int // safety ceiling
}

// Defaults used when configuration leaves paging unset.
const (
	DefaultPageSize = 1000
	DefaultMaxRows  = 15000
)

func (p Paging) withDefaults() Paging {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.MaxRows <= 0 {
		p.MaxRows = DefaultMaxRows
	}
	return p
}

// LogFilter supports activity history filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "SIGN_IN", "SIGN_UP", "SIGN_OUT", "ACCESS_DENIED"
	Limit int       // 0 means DefaultLogLimit
}
