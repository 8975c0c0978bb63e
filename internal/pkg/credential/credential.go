package credential

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// TokenPrefix marks enrollment credential tokens.
const TokenPrefix = "ENROLL"

// suffix entropy in bytes; 16 bytes keeps tokens unguessable.
const suffixBytes = 16

// GenerateToken produces the opaque credential string bound to an
// enrollment. The three ids make the token self-describing for
// debugging; the random suffix makes it unguessable. Consumers must
// treat the whole string as opaque.
func GenerateToken(enrollmentID, courseID, studentID int64) (string, error) {
	buf := make([]byte, suffixBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token entropy: %w", err)
	}
	suffix := base64.RawURLEncoding.EncodeToString(buf)
	return fmt.Sprintf("%s:%d:%d:%d:%s", TokenPrefix, enrollmentID, courseID, studentID, suffix), nil
}

// RenderPNG encodes a credential token as a scannable QR code image.
// Pure function, no side effects.
func RenderPNG(token string) ([]byte, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// ParseEnrollmentID extracts the enrollment id embedded in a token.
// Intended for debugging and log correlation only; lookups always go
// through the unique token column.
func ParseEnrollmentID(token string) (int64, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 5 || parts[0] != TokenPrefix {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
