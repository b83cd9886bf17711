package embedded

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
)

// generateCode returns n uniformly random decimal digits.
func generateCode(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	ten := big.NewInt(10)
	for range n {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}

// hashCode binds the code to the account so a hash cannot be replayed
// against another challenge.
func hashCode(key []byte, accountID, code string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(accountID))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

func codeMatches(key []byte, ch *Challenge, code string) bool {
	return hmac.Equal([]byte(ch.CodeHash), []byte(hashCode(key, ch.AccountID, code)))
}
