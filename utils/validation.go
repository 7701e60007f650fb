package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\d{11}$`)
	platePattern = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// ValidatePhone accepts exactly eleven digits.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NormalizePlate trims and upper-cases a plate number.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ValidatePlate expects an already normalized plate.
func ValidatePlate(plate string) bool {
	return platePattern.MatchString(plate)
}
