package submission

import (
	"signedsubmit/internal/engine/canonical"
	"signedsubmit/internal/engine/signing"
	apperrors "signedsubmit/internal/pkg/errors"
)

// FixtureDigest is the HMAC of FixtureCanonical under the project's signing secret.
const FixtureDigest = "c5db257a56e3c258ec1162459c9a295280871269f4cf70146d2c9f1b52671d45"

const FixtureCanonical = `{"action_run_link":"https://link-to-github-or-another-forge.example.com/your/repository/actions/runs/run_id",` +
	`"email":"you@example.com","name":"Your name",` +
	`"repository_link":"https://link-to-github-or-other-forge.example.com/your/repository",` +
	`"resume_link":"https://pdf-or-html-or-linkedin.example.com","timestamp":"2026-01-06T16:59:37.571Z"}`

func FixturePayload() Payload {
	return Payload{
		Timestamp:      "2026-01-06T16:59:37.571Z",
		Name:           "Your name",
		Email:          "you@example.com",
		ResumeLink:     "https://pdf-or-html-or-linkedin.example.com",
		RepositoryLink: "https://link-to-github-or-other-forge.example.com/your/repository",
		ActionRunLink:  "https://link-to-github-or-another-forge.example.com/your/repository/actions/runs/run_id",
	}
}

// SelfCheck canonicalizes and signs the fixture payload and compares both results
// with the recorded values. It must pass before anything is sent.
func SelfCheck(secret []byte) error {
	return checkFixture(secret, FixtureDigest)
}

func checkFixture(secret []byte, expectedDigest string) error {
	body, err := canonical.Marshal(FixturePayload().Fields())
	if err != nil {
		return &apperrors.SelfCheckError{Stage: "canonicalize", Expected: FixtureCanonical, Actual: err.Error()}
	}
	if string(body) != FixtureCanonical {
		return &apperrors.SelfCheckError{Stage: "canonicalize", Expected: FixtureCanonical, Actual: string(body)}
	}

	digest := signing.Sign(secret, body)
	if digest != expectedDigest {
		return &apperrors.SelfCheckError{Stage: "signature", Expected: expectedDigest, Actual: digest}
	}
	return nil
}
