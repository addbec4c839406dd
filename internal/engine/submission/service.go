package submission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"signedsubmit/internal/engine/canonical"
	"signedsubmit/internal/engine/signing"
	"signedsubmit/internal/platform/config"
)

// Prepared is a signed submission that has not been sent yet.
type Prepared struct {
	DeliveryID string
	Payload    Payload
	Body       []byte
	Digest     string
	Signature  string
}

type Result struct {
	DeliveryID     string
	Receipt        string
	RepositoryLink string
	ActionRunLink  string
	StatusCode     int
}

type Service struct {
	cfg       *config.Config
	submitter Submitter

	now           func() time.Time
	newID         func() string
	fixtureDigest string
}

func NewService(cfg *config.Config, submitter Submitter) *Service {
	return &Service{
		cfg:           cfg,
		submitter:     submitter,
		now:           time.Now,
		newID:         uuid.NewString,
		fixtureDigest: FixtureDigest,
	}
}

// Prepare runs the self-check, then builds, validates, canonicalizes and signs the
// payload. Nothing touches the network.
func (s *Service) Prepare() (*Prepared, error) {
	secret := []byte(s.cfg.Submission.SigningSecret)

	if err := checkFixture(secret, s.fixtureDigest); err != nil {
		return nil, err
	}

	payload := NewPayload(s.cfg, s.now())
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	body, err := canonical.Marshal(payload.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	digest := signing.Sign(secret, body)

	return &Prepared{
		DeliveryID: s.newID(),
		Payload:    payload,
		Body:       body,
		Digest:     digest,
		Signature:  signing.Header(digest),
	}, nil
}

// Run prepares the submission, sends it once and validates the reply.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	prepared, err := s.Prepare()
	if err != nil {
		return nil, err
	}

	logger := log.With().
		Str("delivery_id", prepared.DeliveryID).
		Str("endpoint", s.cfg.Submission.Endpoint).
		Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Str("repository_link", prepared.Payload.RepositoryLink).Msg("repo link")
	logger.Info().Str("action_run_link", prepared.Payload.ActionRunLink).Msg("action run link")
	logger.Debug().
		Str("signature_prefix", signing.Redact(prepared.Digest)).
		Int("bytes", len(prepared.Body)).
		Msg("sending submission")

	resp, err := s.submitter.Submit(ctx, prepared.Body, prepared.Signature)
	if err != nil {
		return nil, err
	}

	receipt, err := ValidateResponse(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Info().Int("status", resp.StatusCode).Msg("submission accepted")

	return &Result{
		DeliveryID:     prepared.DeliveryID,
		Receipt:        receipt,
		RepositoryLink: prepared.Payload.RepositoryLink,
		ActionRunLink:  prepared.Payload.ActionRunLink,
		StatusCode:     resp.StatusCode,
	}, nil
}
