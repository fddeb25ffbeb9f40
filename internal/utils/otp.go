package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPWindow is how long a one-time code stays valid. Expiry is enforced
// by the verifier, not here.
const OTPWindow = 10 * time.Minute

// GenerateOTP returns a uniform random 6-digit code and its creation time.
// The caller persists both on the principal record.
func GenerateOTP() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", time.Time{}, err
	}
	return fmt.Sprintf("%06d", n.Int64()), time.Now(), nil
}

// GenerateResetToken returns a random 256-bit hex token for password resets.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", buf), nil
}
