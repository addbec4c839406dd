package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError_NamesVariable(t *testing.T) {
	err := &ConfigurationError{Variable: "SIGNING_SECRET"}
	assert.Equal(t, "configuration error: missing environment variable SIGNING_SECRET", err.Error())

	err = &ConfigurationError{Variable: "APPLICANT_EMAIL", Reason: "must be a valid email"}
	assert.Equal(t, "configuration error: APPLICANT_EMAIL: must be a valid email", err.Error())
	assert.Equal(t, ErrCodeConfiguration, err.Code())
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("submit: %w", &TransportError{Endpoint: "https://example.com", Cause: cause})

	var te *TransportError
	require.True(t, stderrors.As(wrapped, &te))
	assert.Equal(t, "https://example.com", te.Endpoint)
	assert.True(t, stderrors.Is(wrapped, cause))
}

func TestResponseFormatError_CarriesRawBody(t *testing.T) {
	err := &ResponseFormatError{StatusCode: 502, Body: "<html>Bad Gateway</html>"}
	assert.Contains(t, err.Error(), "<html>Bad Gateway</html>")
	assert.Contains(t, err.Error(), "502")
}

func TestRejectedAndMissingReceipt_IncludeResponse(t *testing.T) {
	resp := map[string]interface{}{"success": false, "error": "bad signature"}
	assert.Contains(t, (&SubmissionRejectedError{Response: resp}).Error(), `"error":"bad signature"`)

	resp = map[string]interface{}{"success": true}
	assert.Contains(t, (&MissingReceiptError{Response: resp}).Error(), `{"success":true}`)
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusUnauthorized, ErrCodeInvalidSignature, "signature mismatch", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Unauthorized", body.Error)
	assert.Equal(t, ErrCodeInvalidSignature, body.Code)
}
