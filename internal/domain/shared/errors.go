package shared

// DomainError is a business rule violation with a stable machine code.
// Handlers map the code to an HTTP status; the message is safe to show
// to API clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError from a code and a client-facing message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Errors shared across the ledger domain.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidAmount       = NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrExceedsBalance      = NewDomainError("EXCEEDS_BALANCE", "Payment exceeds the invoice balance")
	ErrExceedsOutstanding  = NewDomainError("EXCEEDS_OUTSTANDING", "Payment exceeds the customer's total outstanding")
	ErrEmptyPaymentLines   = NewDomainError("EMPTY_PAYMENT_LINES", "Payment must contain at least one positive line")
	ErrInvariantViolation  = NewDomainError("INVARIANT_VIOLATION", "Ledger invariant violated")
)
