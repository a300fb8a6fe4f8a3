package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Match with errors.Is; the concrete error is *UpstreamError.
var (
	ErrInvalidAPIKey      = errors.New("invalid or missing api key")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrEmptyModelResponse = errors.New("empty model response")
	ErrMalformedResponse  = errors.New("malformed model response")
	ErrAnalysisFailed     = errors.New("analysis failed")
)

const (
	ErrorCodeValidation        = "validation_error"
	ErrorCodeLLMAuth           = "llm_auth"
	ErrorCodeLLMQuota          = "llm_quota"
	ErrorCodeLLMRateLimited    = "llm_rate_limited"
	ErrorCodeLLMEmpty          = "llm_empty_response"
	ErrorCodeLLMSchemaMismatch = "llm_schema_mismatch"
	ErrorCodeLLMTimeout        = "llm_timeout"
	ErrorCodeAnalysisFailed    = "analysis_failed"
)

// FieldError names one invalid input.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid input. The model is not called.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid request data: " + strings.Join(parts, "; ")
}

// UpstreamError is a failed model call, classified by Kind. Its message is
// safe to show to end users.
type UpstreamError struct {
	Kind     error
	Provider string
	Cause    error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case ErrInvalidAPIKey:
		return fmt.Sprintf("Invalid or missing %s API key. Please check your configuration.", e.Provider)
	case ErrQuotaExceeded:
		return fmt.Sprintf("%s API quota exceeded. Please try again later.", e.Provider)
	case ErrRateLimited:
		return fmt.Sprintf("%s API rate limit exceeded. Please try again in a moment.", e.Provider)
	case ErrEmptyModelResponse:
		return fmt.Sprintf("Empty response from %s API", e.Provider)
	case ErrMalformedResponse:
		return fmt.Sprintf("Invalid JSON response from %s API", e.Provider)
	default:
		msg := "unknown error"
		if e.Cause != nil {
			msg = e.Cause.Error()
		}
		return fmt.Sprintf("%s API analysis failed: %s", e.Provider, msg)
	}
}

func (e *UpstreamError) Is(target error) bool { return target == e.Kind }

func (e *UpstreamError) Unwrap() error { return e.Cause }

// Code returns the machine-readable code for the error envelope.
func (e *UpstreamError) Code() string {
	switch e.Kind {
	case ErrInvalidAPIKey:
		return ErrorCodeLLMAuth
	case ErrQuotaExceeded:
		return ErrorCodeLLMQuota
	case ErrRateLimited:
		return ErrorCodeLLMRateLimited
	case ErrEmptyModelResponse:
		return ErrorCodeLLMEmpty
	case ErrMalformedResponse:
		return ErrorCodeLLMSchemaMismatch
	default:
		return ErrorCodeAnalysisFailed
	}
}

// classify maps a provider error to a failure kind by its message. The
// checks are ordered: a key problem wins over quota, quota over rate limit.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return ErrInvalidAPIKey
	case strings.Contains(msg, "quota"):
		return ErrQuotaExceeded
	case strings.Contains(msg, "rate limit"):
		return ErrRateLimited
	default:
		return ErrAnalysisFailed
	}
}
