// Package auth wraps bcrypt hashing for the mirrored user credentials.
package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is bcrypt's input limit. Longer passwords are truncated
// before hashing, so a password and its truncated form verify identically.
const MaxPasswordBytes = 72

const hashCost = 12

func toBcryptBytes(password string) []byte {
	raw := []byte(password)
	if len(raw) > MaxPasswordBytes {
		return raw[:MaxPasswordBytes]
	}
	return raw
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(toBcryptBytes(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(plainPassword, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), toBcryptBytes(plainPassword)) == nil
}
