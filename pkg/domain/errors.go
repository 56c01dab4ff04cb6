package domain

import "net/http"

// ErrorKind is a closed enumeration tagging why an operation failed.
type ErrorKind string

const (
	ErrCredentialMissing ErrorKind = "credential_missing"
	ErrInvalidCredential ErrorKind = "invalid_credential"
	ErrRateLimited       ErrorKind = "rate_limited"
	ErrQuotaExceeded     ErrorKind = "quota_exceeded"
	ErrProvider          ErrorKind = "provider_error"
	ErrUnknown           ErrorKind = "unknown_error"
	ErrMissingField      ErrorKind = "missing_field"
	ErrInternal          ErrorKind = "internal_error"
)

// HTTPStatus maps an error kind to the transport status the responder emits.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrMissingField:
		return http.StatusBadRequest
	case ErrInvalidCredential:
		return http.StatusUnauthorized
	case ErrQuotaExceeded:
		return http.StatusPaymentRequired
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Wire codes carried in error response bodies.
const (
	CodeAPIKeyMissing     = "API_KEY_MISSING"
	CodeInvalidAPIKey     = "INVALID_API_KEY"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeInsufficientQuota = "INSUFFICIENT_QUOTA"
	CodeAPIError          = "API_ERROR"
	CodeUnknownError      = "UNKNOWN_ERROR"
	CodeTTSAPIError       = "TTS_API_ERROR"
	CodeTTSUnknownError   = "TTS_UNKNOWN_ERROR"
	CodeMissingMessage    = "MISSING_MESSAGE"
	CodeMissingText       = "MISSING_TEXT"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Failure is the failed arm of a tagged result. Message is safe to show to
// a user; Code is the wire code the HTTP layer carries verbatim.
type Failure struct {
	Kind    ErrorKind
	Message string
	Code    string
}
