package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signedsubmit/internal/engine/canonical"
	"signedsubmit/internal/engine/signing"
	"signedsubmit/internal/engine/submission"
	"signedsubmit/internal/pkg/errors"
)

var testSecret = []byte("receiver-secret")

func newTestHandler() *SubmissionHandler {
	h := NewSubmissionHandler(testSecret)
	h.newReceipt = func() string { return "rcpt-fixed" }
	return h
}

func signedRequest(t *testing.T, body []byte, secret []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/apply/submission", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signing.HeaderName, signing.Header(signing.Sign(secret, body)))
	return req
}

func TestSubmissionHandler_Accepts(t *testing.T) {
	body, err := canonical.Marshal(submission.FixturePayload().Fields())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	newTestHandler().Submit(rr, signedRequest(t, body, testSecret))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "rcpt-fixed", resp["receipt"])
}

func TestSubmissionHandler_AcceptsNonCanonicalLayout(t *testing.T) {
	canon, err := canonical.Marshal(submission.FixturePayload().Fields())
	require.NoError(t, err)
	pretty, err := json.MarshalIndent(submission.FixturePayload(), "", "  ")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/apply/submission", bytes.NewReader(pretty))
	req.Header.Set(signing.HeaderName, signing.Header(signing.Sign(testSecret, canon)))

	rr := httptest.NewRecorder()
	newTestHandler().Submit(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSubmissionHandler_RejectsBadSignature(t *testing.T) {
	body, err := canonical.Marshal(submission.FixturePayload().Fields())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	newTestHandler().Submit(rr, signedRequest(t, body, []byte("wrong-secret")))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, errors.ErrCodeInvalidSignature, resp.Code)
}

func TestSubmissionHandler_RejectsMalformedBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"not json", `hello`, http.StatusBadRequest},
		{"non-string value", `{"name":1}`, http.StatusBadRequest},
		{"missing fields", `{"name":"Ada"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			newTestHandler().Submit(rr, signedRequest(t, []byte(tt.body), testSecret))
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestSubmissionHandler_RejectsExtraFields(t *testing.T) {
	fields := submission.FixturePayload().Fields()
	fields["phone"] = "555-0100"
	body, err := canonical.Marshal(fields)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	newTestHandler().Submit(rr, signedRequest(t, body, testSecret))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler().Check(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)
}
