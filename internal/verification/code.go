package verification

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// DefaultCodeLength is used when no positive length is configured.
const DefaultCodeLength = 6

const digits = "0123456789"

// GenerateCode returns a string of length random decimal digits.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	max := big.NewInt(int64(len(digits)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(digits[n.Int64()])
	}
	return b.String(), nil
}
