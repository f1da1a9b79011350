package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const usernameAlphabet = "0123456789abcdefghijklmnopqrst"

// GenerateOTP returns a uniformly random 6-digit one-time code in
// [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := GenerateInt(100000, 999999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

// GenerateInt returns a uniformly random integer in [min, max].
func GenerateInt(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max")
	}
	if min == max {
		return min, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random int: %w", err)
	}
	return n.Int64() + min, nil
}

// GenerateUsername derives a placeholder username from an email: the first
// two characters of the address followed by sixteen random lowercase
// alphanumerics. The result stays within the username character set.
func GenerateUsername(email string) (string, error) {
	prefix := email
	if at := strings.Index(email, "@"); at >= 0 {
		prefix = email[:at]
	}
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	prefix = sanitize(strings.ToLower(prefix))

	suffix, err := GenerateString(usernameAlphabet, 16)
	if err != nil {
		return "", err
	}
	return prefix + suffix, nil
}

// GenerateString returns a random string of the given length drawn from
// alphabet.
func GenerateString(alphabet string, length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
