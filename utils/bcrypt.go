package utils

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var passwordPattern = regexp.MustCompile(`^[A-Za-z\d]{6,}$`)
var passwordLetter = regexp.MustCompile(`[A-Za-z]`)
var passwordDigit = regexp.MustCompile(`\d`)

func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
}

func ComparePassword(hashed string, normal string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(normal))
}

// ValidatePasswordStrength requires at least 6 alphanumeric characters with a
// letter and a number.
func ValidatePasswordStrength(s string) error {
	if !passwordPattern.MatchString(s) || !passwordLetter.MatchString(s) || !passwordDigit.MatchString(s) {
		return errors.New("password must be at least 6 characters with a letter and a number")
	}
	return nil
}
