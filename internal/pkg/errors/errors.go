package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"
	ErrCodeSelfCheck          = "SELF_CHECK_FAILED"
	ErrCodeTransport          = "TRANSPORT_ERROR"
	ErrCodeResponseFormat     = "RESPONSE_FORMAT_ERROR"
	ErrCodeSubmissionRejected = "SUBMISSION_REJECTED"
	ErrCodeMissingReceipt     = "MISSING_RECEIPT"

	// Receiver-side codes
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInvalidSignature  = "INVALID_SIGNATURE"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// ConfigurationError reports a required variable that is unset, empty or invalid.
type ConfigurationError struct {
	Variable string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Variable, e.Reason)
	}
	return fmt.Sprintf("configuration error: missing environment variable %s", e.Variable)
}

func (e *ConfigurationError) Code() string { return ErrCodeConfiguration }

// SelfCheckError reports that the fixture payload no longer canonicalizes or signs
// to the recorded value.
type SelfCheckError struct {
	Stage    string
	Expected string
	Actual   string
}

func (e *SelfCheckError) Error() string {
	return fmt.Sprintf("self-check failed at %s: expected %q, got %q", e.Stage, e.Expected, e.Actual)
}

func (e *SelfCheckError) Code() string { return ErrCodeSelfCheck }

type TransportError struct {
	Endpoint string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: POST %s: %v", e.Endpoint, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

func (e *TransportError) Code() string { return ErrCodeTransport }

// ResponseFormatError carries the raw body of a response that was not a JSON object.
type ResponseFormatError struct {
	StatusCode int
	Body       string
	Cause      error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("non-JSON response (HTTP %d): %s", e.StatusCode, e.Body)
}

func (e *ResponseFormatError) Unwrap() error { return e.Cause }

func (e *ResponseFormatError) Code() string { return ErrCodeResponseFormat }

type SubmissionRejectedError struct {
	Response map[string]interface{}
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("submission rejected: response success is false: %s", describe(e.Response))
}

func (e *SubmissionRejectedError) Code() string { return ErrCodeSubmissionRejected }

type MissingReceiptError struct {
	Response map[string]interface{}
}

func (e *MissingReceiptError) Error() string {
	return fmt.Sprintf("submission accepted without a receipt: %s", describe(e.Response))
}

func (e *MissingReceiptError) Code() string { return ErrCodeMissingReceipt }

func describe(v map[string]interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}
