package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. The messages are part of the API contract: the
// transport layer surfaces them verbatim in the response envelope.
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "No data found")
	ErrDuplicateName    = NewDomainError("DUPLICATE_NAME", "Brand profile name already in use.")
	ErrUserNotFound     = NewDomainError("USER_NOT_FOUND", "User not found")
	ErrOTPNotFound      = NewDomainError("OTP_NOT_FOUND", "No OTP found")
	ErrInvalidOTP       = NewDomainError("INVALID_OTP", "Invalid OTP")
	ErrOTPExpired       = NewDomainError("OTP_EXPIRED", "OTP expired")
	ErrNoPendingRequest = NewDomainError("NO_PENDING_REQUEST", "No pending OTP request found")
	ErrInvalidIntent    = NewDomainError("INVALID_INTENT", "Invalid intent")
	ErrUnknownRole      = NewDomainError("UNKNOWN_ROLE", "Unknown role")
	ErrTooManyRequests  = NewDomainError("TOO_MANY_REQUESTS", "Too many OTP requests, try again later")
)
