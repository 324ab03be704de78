package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// TokenHash returns the lowercase hex SHA-256 digest of the raw token. It is
// used to correlate audit records without storing the credential.
func TokenHash(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
