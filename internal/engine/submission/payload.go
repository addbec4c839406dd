package submission

import (
	"time"

	"signedsubmit/internal/platform/config"
	apperrors "signedsubmit/internal/pkg/errors"
	"signedsubmit/internal/pkg/validator"
)

// TimestampLayout renders UTC times with millisecond precision and a Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Payload struct {
	Timestamp      string `json:"timestamp" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	ResumeLink     string `json:"resume_link" validate:"required,url"`
	RepositoryLink string `json:"repository_link" validate:"required,url"`
	ActionRunLink  string `json:"action_run_link" validate:"required,url"`
}

// fieldSources maps payload fields to the variable they are built from.
var fieldSources = map[string]string{
	"name":            "APPLICANT_NAME",
	"email":           "APPLICANT_EMAIL",
	"resume_link":     "RESUME_LINK",
	"repository_link": "GITHUB_SERVER_URL",
	"action_run_link": "GITHUB_SERVER_URL",
}

func NewPayload(cfg *config.Config, now time.Time) Payload {
	return Payload{
		Timestamp:      FormatTimestamp(now),
		Name:           cfg.Applicant.Name,
		Email:          cfg.Applicant.Email,
		ResumeLink:     cfg.Submission.ResumeLink,
		RepositoryLink: cfg.CI.RepositoryLink(),
		ActionRunLink:  cfg.CI.ActionRunLink(),
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Fields returns the payload as the string map that gets canonicalized.
func (p Payload) Fields() map[string]string {
	return map[string]string{
		"timestamp":       p.Timestamp,
		"name":            p.Name,
		"email":           p.Email,
		"resume_link":     p.ResumeLink,
		"repository_link": p.RepositoryLink,
		"action_run_link": p.ActionRunLink,
	}
}

// Validate reports the first invalid field as a ConfigurationError naming the
// variable it came from.
func (p Payload) Validate() error {
	errs, err := validator.Struct(p)
	if err != nil {
		return err
	}
	if len(errs) == 0 {
		return nil
	}

	variable, ok := fieldSources[errs[0].Field]
	if !ok {
		variable = errs[0].Field
	}
	return &apperrors.ConfigurationError{Variable: variable, Reason: errs[0].Error()}
}
