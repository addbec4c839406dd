package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"signedsubmit/internal/engine/canonical"
	"signedsubmit/internal/engine/signing"
	"signedsubmit/internal/engine/submission"
	"signedsubmit/internal/pkg/errors"
)

const maxSubmissionBytes = 1 << 20

// SubmissionHandler accepts signed submissions the way the remote service does:
// it re-canonicalizes the decoded body and checks the signature over those bytes.
type SubmissionHandler struct {
	secret     []byte
	newReceipt func() string
}

func NewSubmissionHandler(secret []byte) *SubmissionHandler {
	return &SubmissionHandler{
		secret:     secret,
		newReceipt: uuid.NewString,
	}
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Body must be a JSON object of strings", err.Error())
		return
	}

	body, err := canonical.Marshal(fields)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Body is not valid UTF-8", nil)
		return
	}

	if !signing.Verify(h.secret, body, r.Header.Get(signing.HeaderName)) {
		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("signature verification failed")
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeInvalidSignature, "Signature does not match payload", nil)
		return
	}

	payload := submission.Payload{
		Timestamp:      fields["timestamp"],
		Name:           fields["name"],
		Email:          fields["email"],
		ResumeLink:     fields["resume_link"],
		RepositoryLink: fields["repository_link"],
		ActionRunLink:  fields["action_run_link"],
	}
	if len(fields) != len(payload.Fields()) {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, "Unexpected fields in submission", nil)
		return
	}
	if err := payload.Validate(); err != nil {
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	receipt := h.newReceipt()
	log.Info().Str("receipt", receipt).Str("email", payload.Email).Msg("submission accepted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"receipt": receipt,
	})
}
