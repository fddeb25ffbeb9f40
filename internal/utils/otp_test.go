package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	otpPattern := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 50; i++ {
		otp, createdAt, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, otpPattern, otp)
		assert.WithinDuration(t, time.Now(), createdAt, time.Second)
	}
}

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, token)

	other, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
