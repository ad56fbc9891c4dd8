package api

import (
	"errors"
	"fmt"
)

// The resolver consumes these sentinels to classify a verification outcome.
// Conflating ErrAuthExpired with ErrUnreachable would either log users out
// during a network blip or keep a dead token alive, so the split is load
// bearing.
var (
	ErrAuthExpired  = errors.New("token expired")
	ErrAuthInvalid  = errors.New("authentication invalid")
	ErrUnreachable  = errors.New("backend unreachable")
	ErrNotSkinImage = errors.New("image rejected by classifier")
)

// statusError keeps the exact 5xx status while still matching
// errors.Is(err, ErrUnreachable). The classifier's 500 is the one case
// where the number matters.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend unreachable: status %d", e.status)
}

func (e *statusError) Unwrap() error {
	return ErrUnreachable
}

// APIError carries a non-auth 4xx the caller may want to show verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}
