package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckAdmin compares submitted credentials with the configured admin pair.
// An unconfigured admin never matches.
func CheckAdmin(wantEmail, wantPassword, email, password string) bool {
	if wantEmail == "" || wantPassword == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(wantEmail), []byte(email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(wantPassword), []byte(password)) == 1
	return emailOK && passOK
}
