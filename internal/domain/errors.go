package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by store adapters.
var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrDeviceNotFound       = errors.New("device not found")
	ErrUnsupportedAttribute = errors.New("device does not support attribute")
	ErrInvalidDelta         = errors.New("invalid attribute delta")
)

// ErrorKind classifies a failure so the response generator can pick
// phrasing without parsing free text.
type ErrorKind string

const (
	ErrorCustomerNotFound     ErrorKind = "customer_not_found"
	ErrorDeviceNotFound       ErrorKind = "device_not_found"
	ErrorAmbiguousDevice      ErrorKind = "ambiguous_device"
	ErrorUnsupportedAttribute ErrorKind = "unsupported_attribute"
	ErrorPersistenceFailed    ErrorKind = "persistence_failed"
	ErrorPermissionDenied     ErrorKind = "permission_denied"
	ErrorMissingParameter     ErrorKind = "missing_parameter"
)

// ActionError is a failure captured as a value.
type ActionError struct {
	Kind       ErrorKind `json:"kind"`
	Detail     string    `json:"detail"`
	Candidates []string  `json:"candidates,omitempty"`
}

func (e *ActionError) Error() string {
	if len(e.Candidates) > 0 {
		return fmt.Sprintf("%s: %s (candidates: %s)", e.Kind, e.Detail, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func NewActionError(kind ErrorKind, format string, args ...any) *ActionError {
	return &ActionError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
