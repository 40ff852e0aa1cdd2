// Package credential is the single place passwords are hashed and verified.
// Callers hold only the opaque digest; the plaintext never leaves this
// package's call frames and the digest is never invertible.
package credential

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted one-way digest from a plaintext password.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
