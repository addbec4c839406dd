package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	HeaderName   = "X-Signature-256"
	HeaderPrefix = "sha-256="
)

// Sign returns the lowercase hex HMAC-SHA256 of payload keyed by secret.
func Sign(secret, payload []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func Header(digest string) string {
	return HeaderPrefix + digest
}

// Verify reports whether header carries the HMAC of body under secret.
// The "sha-256=" prefix is optional.
func Verify(secret, body []byte, header string) bool {
	if header == "" {
		return false
	}
	header = strings.TrimPrefix(header, HeaderPrefix)

	decoded, err := hex.DecodeString(header)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, secret)
	h.Write(body)
	return hmac.Equal(h.Sum(nil), decoded)
}

// Redact keeps the first eight hex characters of a digest for logging.
func Redact(digest string) string {
	if len(digest) <= 8 {
		return digest
	}
	return digest[:8] + "..."
}
