package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorType classifies an adapter failure by cause; the UI keys its
// messaging on this alone, never on raw transport detail.
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeBilling    ErrorType = "billing"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// APIError is the classified, user-presentable failure every adapter call
// returns instead of a raw transport error.
type APIError struct {
	Type    ErrorType
	Message string
	Code    string // server-reported code, if any
	Status  int    // HTTP status, 0 when no response arrived
	Details string // raw payload for diagnostics
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func classifyTransport(err error) *APIError {
	return &APIError{
		Type:    ErrorTypeNetwork,
		Message: "Unable to connect to the server. Please check your internet connection.",
		Details: err.Error(),
	}
}

func classifyStatus(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.Unmarshal(body, &payload)

	e := &APIError{Code: payload.Code, Status: status, Details: string(body)}

	switch status {
	case http.StatusBadRequest:
		e.Type = ErrorTypeValidation
		e.Message = payload.Error
		if e.Message == "" {
			e.Message = "Invalid request. Please check your input."
		}
	case http.StatusUnauthorized:
		e.Type = ErrorTypeAuth
		e.Message = "API key authentication failed. Please check the server configuration."
	case http.StatusPaymentRequired:
		e.Type = ErrorTypeBilling
		e.Message = "Insufficient credits. Please check the provider billing."
	case http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
		e.Message = "Too many requests. Please wait a moment and try again."
	case http.StatusInternalServerError:
		e.Type = ErrorTypeServer
		e.Message = payload.Error
		if e.Message == "" {
			e.Message = "Server error. Please try again later."
		}
	default:
		e.Type = ErrorTypeUnknown
		e.Message = fmt.Sprintf("Unexpected error (%d). Please try again.", status)
	}

	return e
}
