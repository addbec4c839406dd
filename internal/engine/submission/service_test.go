package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signedsubmit/internal/engine/signing"
	apperrors "signedsubmit/internal/pkg/errors"
)

type fakeSubmitter struct {
	calls     int
	body      []byte
	signature string
	resp      *Response
	err       error
}

func (f *fakeSubmitter) Submit(ctx context.Context, body []byte, signature string) (*Response, error) {
	f.calls++
	f.body = body
	f.signature = signature
	return f.resp, f.err
}

func newTestService(sub Submitter) *Service {
	svc := NewService(testConfig(), sub)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }
	svc.newID = func() string { return "delivery-1" }
	svc.fixtureDigest = testSecretFixtureDigest
	return svc
}

func TestServiceRun_Success(t *testing.T) {
	sub := &fakeSubmitter{resp: &Response{
		StatusCode: 200,
		Body:       map[string]interface{}{"success": true, "receipt": "rcpt-123"},
	}}

	result, err := newTestService(sub).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rcpt-123", result.Receipt)
	assert.Equal(t, "delivery-1", result.DeliveryID)
	assert.Equal(t, "https://github.com/zoe/apply", result.RepositoryLink)
	assert.Equal(t, "https://github.com/zoe/apply/actions/runs/987654321", result.ActionRunLink)

	wantBody := `{"action_run_link":"https://github.com/zoe/apply/actions/runs/987654321",` +
		`"email":"zoe@example.com","name":"Zoë Example",` +
		`"repository_link":"https://github.com/zoe/apply",` +
		`"resume_link":"https://resume.example.com/cv.pdf","timestamp":"2026-10-16T09:30:00.000Z"}`
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, wantBody, string(sub.body))
	assert.True(t, signing.Verify([]byte("test-secret"), sub.body, sub.signature))
	assert.Regexp(t, `^sha-256=[0-9a-f]{64}$`, sub.signature)
}

func TestServiceRun_SelfCheckFailureSkipsNetwork(t *testing.T) {
	sub := &fakeSubmitter{}
	svc := newTestService(sub)
	svc.fixtureDigest = FixtureDigest

	_, err := svc.Run(context.Background())

	var scErr *apperrors.SelfCheckError
	require.True(t, errors.As(err, &scErr))
	assert.Equal(t, 0, sub.calls)
}

func TestServiceRun_InvalidPayloadSkipsNetwork(t *testing.T) {
	sub := &fakeSubmitter{}
	svc := newTestService(sub)
	svc.cfg.Applicant.Email = "nope"

	_, err := svc.Run(context.Background())

	var cfgErr *apperrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "APPLICANT_EMAIL", cfgErr.Variable)
	assert.Equal(t, 0, sub.calls)
}

func TestServiceRun_PropagatesErrors(t *testing.T) {
	transportErr := &apperrors.TransportError{Endpoint: "https://apply.example.com", Cause: context.DeadlineExceeded}

	_, err := newTestService(&fakeSubmitter{err: transportErr}).Run(context.Background())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	sub := &fakeSubmitter{resp: &Response{StatusCode: 200, Body: map[string]interface{}{"success": true}}}
	_, err = newTestService(sub).Run(context.Background())
	var missing *apperrors.MissingReceiptError
	assert.True(t, errors.As(err, &missing))
}

func TestServicePrepare(t *testing.T) {
	prepared, err := newTestService(&fakeSubmitter{}).Prepare()
	require.NoError(t, err)

	assert.Equal(t, "delivery-1", prepared.DeliveryID)
	assert.Equal(t, signing.Header(prepared.Digest), prepared.Signature)
	assert.Equal(t, signing.Sign([]byte("test-secret"), prepared.Body), prepared.Digest)
}
