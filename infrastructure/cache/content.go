package cache

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// Digest returns the SHA-256 hex digest of payload. Identical bytes always
// produce the same digest, which is what makes AI results deduplicable
// across users and sessions.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// NormalizeImagePayload reduces an uploaded image to its raw bytes before
// hashing: a data-URL envelope ("data:image/png;base64,...") is stripped
// and the base64 body decoded, so the same image hashes identically
// whether it arrives bare or wrapped. Payloads that are not valid base64
// are hashed as-is.
func NormalizeImagePayload(payload string) []byte {
	body := payload
	if strings.HasPrefix(body, "data:") {
		if idx := strings.Index(body, ","); idx >= 0 {
			body = body[idx+1:]
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(body); err == nil {
		return decoded
	}
	return []byte(body)
}

// ImageDigest hashes a normalized image payload
func ImageDigest(payload string) string {
	return Digest(NormalizeImagePayload(payload))
}

// AnswersDigest hashes an ordered set of questionnaire answers. Answers
// are joined with an ASCII unit separator so ["ab","c"] and ["a","bc"]
// never collide.
func AnswersDigest(answers []string) string {
	return Digest([]byte(strings.Join(answers, "\x1f")))
}
