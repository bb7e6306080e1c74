package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode_SixDigits(t *testing.T) {
	code, err := RandomCode(6)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), code)
}

func TestDigest_Deterministic(t *testing.T) {
	assert.Equal(t, Digest("123456"), Digest("123456"))
	assert.NotEqual(t, Digest("123456"), Digest("123457"))
}

func TestDigest_IsHexSHA256(t *testing.T) {
	d := Digest("123456")
	assert.Len(t, d, 64)
	// Known vector for sha256("123456").
	assert.Equal(t, "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92", d)
}
