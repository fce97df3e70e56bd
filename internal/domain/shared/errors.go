package shared

// DomainError is a domain-level error with a stable machine-readable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on the error code so errors.Is works against the sentinels
// below even when the message carries operation-specific detail.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. IllegalTransition is never retried automatically;
// InvalidMovement and TenantMismatch indicate integrity bugs and callers
// log them at higher severity.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrIllegalTransition   = NewDomainError("ILLEGAL_TRANSITION", "Status transition not allowed from current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidMovement     = NewDomainError("INVALID_MOVEMENT", "Movement would drive a stock counter negative")
	ErrTenantMismatch      = NewDomainError("TENANT_MISMATCH", "Operation crosses a tenant boundary")
)
