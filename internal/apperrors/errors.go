package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrStructuralData indicates corrupt ledger data, e.g. an entry whose side
// is neither debit nor credit, or a missing required reference entity.
// Always fatal, never retried.
var ErrStructuralData = errors.New("structural data error")

// ErrAccountNotResolvable indicates the resolver's whole fallback chain
// missed; the leg is unpostable.
var ErrAccountNotResolvable = errors.New("no ledger account resolvable for entry")

// ErrAccountingDisabled indicates the organization has accounting switched
// off; fatal for the whole batch.
var ErrAccountingDisabled = errors.New("accounting is disabled for organization")

// ErrAlreadyPosted guards against double-posting a transaction.
var ErrAlreadyPosted = errors.New("transaction is already posted")

// ErrPeriodClosed indicates a write into a closed or missing time period.
var ErrPeriodClosed = errors.New("time period is closed or missing")

// ErrChildPeriodStillOpen blocks closing a period while a nested period is open.
var ErrChildPeriodStillOpen = errors.New("child time period is still open")

// ErrDivergentClosingBalance indicates a re-close computed a different figure
// than the persisted snapshot; closing must never silently overwrite it.
var ErrDivergentClosingBalance = errors.New("closing balance diverges from persisted snapshot")

// ErrNoClosableAnchor indicates no prior closed period (nor an earliest
// period of the same type) exists to anchor a close.
var ErrNoClosableAnchor = errors.New("no anchor period found for closing")

// AppError wraps a lower-level error with a status code and a stable
// message, used at the repository boundary.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
