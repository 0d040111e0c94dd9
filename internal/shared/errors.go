package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates the command collides with existing state.
	ErrConflict = errors.New("conflict with current state")
	// ErrPrecondition indicates the snapshot is not ready for the command.
	ErrPrecondition = errors.New("precondition failed")
	// ErrInvalidInput indicates caller-supplied data failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// UserSafeMessage maps an error to a message safe to show callers.
// Domain errors carry caller-facing text already; anything else is masked.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrPrecondition),
		errors.Is(err, ErrInvalidInput):
		return err.Error()
	}
	return "internal error, please retry or contact support"
}
