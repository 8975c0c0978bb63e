package credential

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_Format(t *testing.T) {
	token, err := GenerateToken(7, 3, 12)
	require.NoError(t, err)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 5)
	assert.Equal(t, "ENROLL", parts[0])
	assert.Equal(t, "7", parts[1])
	assert.Equal(t, "3", parts[2])
	assert.Equal(t, "12", parts[3])
	// 16 bytes of entropy, base64 url-safe without padding.
	assert.Len(t, parts[4], 22)
	assert.NotContains(t, parts[4], "=")
	assert.NotContains(t, parts[4], "+")
	assert.NotContains(t, parts[4], "/")
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken(1, 1, 1)
		require.NoError(t, err)
		assert.False(t, seen[token], "token repeated: %s", token)
		seen[token] = true
	}
}

func TestRenderPNG(t *testing.T) {
	token, err := GenerateToken(1, 2, 3)
	require.NoError(t, err)

	png, err := RenderPNG(token)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestParseEnrollmentID(t *testing.T) {
	token, err := GenerateToken(42, 1, 2)
	require.NoError(t, err)

	id, ok := ParseEnrollmentID(token)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = ParseEnrollmentID("not-a-token")
	assert.False(t, ok)

	_, ok = ParseEnrollmentID("TICKET:1:2:3:abc")
	assert.False(t, ok)

	_, ok = ParseEnrollmentID("ENROLL:x:2:3:abc")
	assert.False(t, ok)
}
