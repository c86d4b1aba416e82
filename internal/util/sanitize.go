package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// SanitizeForLog removes control characters and newlines from user content before logging.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	re := regexp.MustCompile(`[\x00-\x1F\x7F]+`)
	s = re.ReplaceAllString(s, " ")
	return s
}

// HashIP returns the salted SHA-256 of a client address. Plain IPs are
// never written to the database or the logs.
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])
}

// TruncateUserAgent caps the user agent string for audit storage.
func TruncateUserAgent(ua string) string {
	ua = SanitizeForLog(ua)
	if len(ua) > 255 {
		return ua[:255]
	}
	return ua
}
