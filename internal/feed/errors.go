package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrLoginRequired rejects submissions and votes without an identified user.
	ErrLoginRequired = errors.New("must log in first")

	// ErrAlreadyVoted rejects a second vote by the same user on the same fact.
	ErrAlreadyVoted = errors.New("already voted on this fact")

	// ErrFactNotFound rejects operations addressing an unknown fact id.
	ErrFactNotFound = errors.New("fact not found")
)

// ValidationError reports a malformed submission input. Handlers surface it
// to the caller; nothing is written to the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
