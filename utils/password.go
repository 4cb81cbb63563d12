package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var dummyHash []byte

func init() {
	// built up front so the first unknown-user login costs the same as later ones
	dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-user-placeholder"), bcrypt.DefaultCost)
}

// CheckPasswordLength rejects passwords that bcrypt cannot hash. It must be given
// the password in the exact form that will be hashed, i.e. after Sanitize.
func CheckPasswordLength(password string) error {
	if len(password) > MaxPasswordBytes {
		return ValidationError(fmt.Sprintf("password must be at most %d bytes once special characters are escaped", MaxPasswordBytes))
	}
	return nil
}

// HashPassword returns the bcrypt hash of the password using a cost that balances security and performance.
// The salt is random per call, so hashing the same password twice gives different digests.
func HashPassword(password string) (string, error) {
	if err := CheckPasswordLength(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible plaintext equivalent.
// A malformed hash simply fails the comparison.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// EqualizeMissingUser burns one full bcrypt comparison so that a login for an
// unknown username takes as long as one with a wrong password.
func EqualizeMissingUser(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
