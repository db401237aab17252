package errclass

import "fmt"

// LockError is a stable, machine-readable error class.
type LockError struct {
	Code    string
	Message string
	Cause   error
}

func (e *LockError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LockError) Is(target error) bool {
	t, ok := target.(*LockError)
	return ok && e.Code == t.Code
}

// Unwrap exposes the underlying OS error, if any.
func (e *LockError) Unwrap() error {
	return e.Cause
}

// WithMessage returns a new LockError with the same Code but a specific message.
func (e *LockError) WithMessage(msg string) *LockError {
	return &LockError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new LockError with a formatted message.
func (e *LockError) WithMessagef(format string, args ...any) *LockError {
	return &LockError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// WithCause returns a new LockError carrying the underlying OS error.
func (e *LockError) WithCause(msg string, cause error) *LockError {
	return &LockError{Code: e.Code, Message: msg, Cause: cause}
}

// All stable error classes.
var (
	ErrNameInvalid   = &LockError{Code: "E_NAME_INVALID"}
	ErrConfigInvalid = &LockError{Code: "E_CONFIG_INVALID"}
	ErrMaxTries      = &LockError{Code: "E_LOCK_MAX_TRIES"}
	ErrTimeout       = &LockError{Code: "E_LOCK_TIMEOUT"}
	ErrStolen        = &LockError{Code: "E_LOCK_STOLEN"}
	ErrUnlock        = &LockError{Code: "E_UNLOCK"}
	ErrNFSLink       = &LockError{Code: "E_NFS_LINK"}
	ErrReentry       = &LockError{Code: "E_LOCK_REENTRY"}
	ErrNotHeld       = &LockError{Code: "E_LOCK_NOT_HELD"}
)
