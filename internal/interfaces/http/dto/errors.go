package dto

import "net/http"

// Transport error codes returned in the error envelope. Every domain
// error code has a transport counterpart here.
const (
	ErrCodeInternal   = "ERR_INTERNAL"
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeBusinessRule       = "ERR_BUSINESS_RULE"
	ErrCodeInvalidAmount      = "ERR_INVALID_AMOUNT"
	ErrCodeExceedsBalance     = "ERR_EXCEEDS_BALANCE"
	ErrCodeExceedsOutstanding = "ERR_EXCEEDS_OUTSTANDING"
	ErrCodeEmptyPaymentLines  = "ERR_EMPTY_PAYMENT_LINES"
	ErrCodeInvariantViolation = "ERR_INVARIANT_VIOLATION"
)

// statusByCode maps each transport code to its HTTP status. Ledger rule
// violations answer 422; an invariant violation means the stored ledger
// itself is inconsistent, so it answers 500.
var statusByCode = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeInvalidAmount:      http.StatusUnprocessableEntity,
	ErrCodeExceedsBalance:     http.StatusUnprocessableEntity,
	ErrCodeExceedsOutstanding: http.StatusUnprocessableEntity,
	ErrCodeEmptyPaymentLines:  http.StatusUnprocessableEntity,
	ErrCodeInvariantViolation: http.StatusInternalServerError,
}

// GetHTTPStatus resolves a transport code to its HTTP status, defaulting
// to 500 for codes it does not know.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainToTransport translates the bare codes emitted by the domain
// layer into their ERR_-prefixed transport form.
var domainToTransport = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"UNAUTHORIZED":          ErrCodeUnauthorized,
	"FORBIDDEN":             ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"INVALID_AMOUNT":        ErrCodeInvalidAmount,
	"EXCEEDS_BALANCE":       ErrCodeExceedsBalance,
	"EXCEEDS_OUTSTANDING":   ErrCodeExceedsOutstanding,
	"EMPTY_PAYMENT_LINES":   ErrCodeEmptyPaymentLines,
	"INVARIANT_VIOLATION":   ErrCodeInvariantViolation,
	"VALIDATION_ERROR":      ErrCodeValidation,
	"INVALID_CUSTOMER_CODE": ErrCodeValidation,
	"INVALID_CUSTOMER_NAME": ErrCodeValidation,
	"BAD_REQUEST":           ErrCodeBadRequest,
	"INTERNAL_ERROR":        ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code into its transport
// form; codes already in transport form, or unknown ones, pass through.
func NormalizeErrorCode(code string) string {
	if transport, ok := domainToTransport[code]; ok {
		return transport
	}
	return code
}
