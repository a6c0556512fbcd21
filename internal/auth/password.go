package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost pins the hashing cost so stored hashes stay comparable across deploys.
const bcryptCost = 10

// HashPassword returns a salted bcrypt hash of plaintext. Never store the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// bcrypt's comparison is safe against timing attacks.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
