package service

import (
	"regexp"
	"strings"

	"parking-service/internal/models"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'.]{7,9}$`)
	emailRe    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

	passwordLowerRe   = regexp.MustCompile(`[a-z]`)
	passwordUpperRe   = regexp.MustCompile(`[A-Z]`)
	passwordDigitRe   = regexp.MustCompile(`[0-9]`)
	passwordSpecialRe = regexp.MustCompile("[~!@#$%&_+\\-=`|\\\\(){}\\[\\]:;'<>,.?/]")

	phoneStripRe  = regexp.MustCompile(`[\s\-()+]`)
	phoneDigitsRe = regexp.MustCompile(`^[0-9]{7,15}$`)
	phoneCharsRe  = regexp.MustCompile(`^[\d\s\-()+]+$`)

	plateCharsRe = regexp.MustCompile(`^[A-Z0-9\s\-]+$`)
)

// ValidUsername accepts 8 to 10 characters, starting with a letter or
// underscore, followed by letters, digits, underscores, quotes or dots
func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidPassword accepts 12 to 30 characters holding at least one lowercase
// letter, one uppercase letter, one digit and one special character
func ValidPassword(password string) bool {
	if len(password) < 12 || len(password) > 30 {
		return false
	}
	return passwordLowerRe.MatchString(password) &&
		passwordUpperRe.MatchString(password) &&
		passwordDigitRe.MatchString(password) &&
		passwordSpecialRe.MatchString(password)
}

// ValidEmail accepts anything shaped local@domain.tld
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone accepts international phone numbers: 7 to 15 digits with
// spaces, dashes, parentheses and a plus sign as separators
func ValidPhone(phone string) bool {
	if !phoneCharsRe.MatchString(phone) {
		return false
	}
	digits := phoneStripRe.ReplaceAllString(phone, "")
	return phoneDigitsRe.MatchString(digits)
}

// ValidLicensePlate accepts plates of 2 to 15 alphanumeric characters, with
// spaces and dashes as separators
func ValidLicensePlate(plate string) bool {
	clean := models.NormalizePlate(plate)
	if len(clean) < 2 || len(clean) > 15 {
		return false
	}
	return plateCharsRe.MatchString(strings.ToUpper(plate))
}

// ValidRole accepts the two known roles in any letter case
func ValidRole(role string) bool {
	role = strings.ToUpper(role)
	return role == models.RoleUser || role == models.RoleAdmin
}
