package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "signedsubmit/internal/pkg/errors"
)

const DefaultEndpoint = "https://b12.io/apply/submission"

type Config struct {
	Submission SubmissionConfig `mapstructure:"submission"`
	Applicant  ApplicantConfig  `mapstructure:"applicant"`
	CI         CIConfig         `mapstructure:"ci"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Receiver   ReceiverConfig   `mapstructure:"receiver"`
}

type SubmissionConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SigningSecret string        `mapstructure:"signing_secret"`
	ResumeLink    string        `mapstructure:"resume_link"`
}

type ApplicantConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type CIConfig struct {
	ServerURL  string `mapstructure:"server_url"`
	Repository string `mapstructure:"repository"`
	RunID      string `mapstructure:"run_id"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type ReceiverConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`

	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// RepositoryLink is {server}/{repo}.
func (c CIConfig) RepositoryLink() string {
	return fmt.Sprintf("%s/%s", c.ServerURL, c.Repository)
}

// ActionRunLink is {server}/{repo}/actions/runs/{run_id}.
func (c CIConfig) ActionRunLink() string {
	return fmt.Sprintf("%s/%s/actions/runs/%s", c.ServerURL, c.Repository, c.RunID)
}

type binding struct {
	key      string
	env      string
	required bool
}

// Required bindings come first, in the order they are reported when missing.
var bindings = []binding{
	{"submission.resume_link", "RESUME_LINK", true},
	{"submission.signing_secret", "SIGNING_SECRET", true},
	{"ci.server_url", "GITHUB_SERVER_URL", true},
	{"ci.repository", "GITHUB_REPOSITORY", true},
	{"ci.run_id", "GITHUB_RUN_ID", true},
	{"applicant.name", "APPLICANT_NAME", true},
	{"applicant.email", "APPLICANT_EMAIL", true},

	{"submission.endpoint", "SUBMISSION_ENDPOINT", false},
	{"submission.timeout", "SUBMISSION_TIMEOUT", false},
	{"logging.level", "LOG_LEVEL", false},
	{"logging.format", "LOG_FORMAT", false},
	{"logging.output", "LOG_OUTPUT", false},
	{"logging.file_path", "LOG_FILE_PATH", false},
	{"receiver.host", "RECEIVER_HOST", false},
	{"receiver.port", "RECEIVER_PORT", false},
	{"receiver.path", "RECEIVER_PATH", false},
	{"receiver.rate_limit_per_minute", "RECEIVER_RATE_LIMIT", false},
}

// Loader resolves settings from the environment, falling back to an optional
// config file and then to defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader binds every setting to its environment variable. path may be empty.
func NewLoader(path string) (*Loader, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", b.env, err)
		}
	}

	v.SetDefault("submission.endpoint", DefaultEndpoint)
	v.SetDefault("submission.timeout", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("receiver.host", "127.0.0.1")
	v.SetDefault("receiver.port", 8080)
	v.SetDefault("receiver.path", "/apply/submission")
	v.SetDefault("receiver.rate_limit_per_minute", 60)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return &Loader{v: v}, nil
}

// Require returns the value for key, or a ConfigurationError naming its environment
// variable when the value is unset or empty.
func (l *Loader) Require(key string) (string, error) {
	val := l.v.GetString(key)
	if val == "" {
		return "", &apperrors.ConfigurationError{Variable: envName(key)}
	}
	return val, nil
}

func (l *Loader) SigningSecret() ([]byte, error) {
	secret, err := l.Require("submission.signing_secret")
	if err != nil {
		return nil, err
	}
	return []byte(secret), nil
}

// Logging never fails; it is needed before anything else is validated.
func (l *Loader) Logging() LoggingConfig {
	return LoggingConfig{
		Level:    l.v.GetString("logging.level"),
		Format:   l.v.GetString("logging.format"),
		Output:   l.v.GetString("logging.output"),
		FilePath: l.v.GetString("logging.file_path"),
	}
}

// Load unmarshals every setting and checks that required ones are present.
func (l *Loader) Load() (*Config, error) {
	for _, b := range bindings {
		if !b.required {
			continue
		}
		if _, err := l.Require(b.key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Submission.Timeout <= 0 {
		return nil, &apperrors.ConfigurationError{
			Variable: "SUBMISSION_TIMEOUT",
			Reason:   "must be a positive duration",
		}
	}

	return &cfg, nil
}

// LoadReceiver loads what the local receiver needs: the shared secret, logging and
// listen settings. Submission inputs are not required.
func (l *Loader) LoadReceiver() (*Config, error) {
	if _, err := l.SigningSecret(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Receiver.Port <= 0 || cfg.Receiver.Port > 65535 {
		return nil, &apperrors.ConfigurationError{
			Variable: "RECEIVER_PORT",
			Reason:   "must be between 1 and 65535",
		}
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	loader, err := NewLoader(path)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}

func envName(key string) string {
	for _, b := range bindings {
		if b.key == key {
			return b.env
		}
	}
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
