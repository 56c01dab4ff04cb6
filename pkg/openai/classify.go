package openai

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/dkravets/conversai/pkg/domain"
)

// classify folds any SDK error into the closed failure taxonomy. A provider
// status code drives the kind; anything without one (timeouts, DNS, refused
// connections) is UnknownError.
func classify(err error, tts bool) *domain.Failure {
	if status, ok := providerStatus(err); ok {
		return failureForStatus(status, tts)
	}

	if tts {
		return &domain.Failure{
			Kind:    domain.ErrUnknown,
			Message: "Failed to generate speech",
			Code:    domain.CodeTTSUnknownError,
		}
	}
	return &domain.Failure{
		Kind:    domain.ErrUnknown,
		Message: "Failed to generate AI response",
		Code:    domain.CodeUnknownError,
	}
}

func providerStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

func failureForStatus(status int, tts bool) *domain.Failure {
	switch status {
	case http.StatusUnauthorized:
		if tts {
			return &domain.Failure{
				Kind:    domain.ErrInvalidCredential,
				Message: "Invalid API key for TTS service.",
				Code:    domain.CodeInvalidAPIKey,
			}
		}
		return &domain.Failure{
			Kind:    domain.ErrInvalidCredential,
			Message: "Invalid API key. Please check the server configuration.",
			Code:    domain.CodeInvalidAPIKey,
		}
	case http.StatusTooManyRequests:
		if tts {
			return &domain.Failure{
				Kind:    domain.ErrRateLimited,
				Message: "TTS rate limit exceeded. Please try again shortly.",
				Code:    domain.CodeRateLimitExceeded,
			}
		}
		return &domain.Failure{
			Kind:    domain.ErrRateLimited,
			Message: "Rate limit exceeded. Please try again in a moment.",
			Code:    domain.CodeRateLimitExceeded,
		}
	case http.StatusPaymentRequired:
		if tts {
			return &domain.Failure{
				Kind:    domain.ErrQuotaExceeded,
				Message: "Insufficient credits for TTS service.",
				Code:    domain.CodeInsufficientQuota,
			}
		}
		return &domain.Failure{
			Kind:    domain.ErrQuotaExceeded,
			Message: "Insufficient credits. Please check your provider billing.",
			Code:    domain.CodeInsufficientQuota,
		}
	default:
		if tts {
			return &domain.Failure{
				Kind:    domain.ErrProvider,
				Message: "TTS provider request failed.",
				Code:    domain.CodeTTSAPIError,
			}
		}
		return &domain.Failure{
			Kind:    domain.ErrProvider,
			Message: "Provider request failed.",
			Code:    domain.CodeAPIError,
		}
	}
}

func credentialMissingFailure() *domain.Failure {
	return &domain.Failure{
		Kind:    domain.ErrCredentialMissing,
		Message: "API key not configured. Please add OPENAI_API_KEY to your .env file.",
		Code:    domain.CodeAPIKeyMissing,
	}
}
