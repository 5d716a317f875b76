package common

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	accountRegex = regexp.MustCompile(`^[a-z0-9]+$`)
	nameRegex    = regexp.MustCompile(`^\p{L}+$`)
	keywordRegex = regexp.MustCompile(`^\p{L}+$`)
	codeRegex    = regexp.MustCompile(`^[0-9]{6}$`)

	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// ValidateLength counts runes, not bytes.
func ValidateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return BadRequest(fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return nil
}

func ValidateAccount(account string) error {
	if err := ValidateLength("account", account, 6, 12); err != nil {
		return err
	}
	if !accountRegex.MatchString(account) {
		return BadRequest("account can only contain lowercase letters and numbers")
	}
	return nil
}

func ValidatePassword(password string) error {
	if err := ValidateLength("password", password, 8, 16); err != nil {
		return err
	}
	if !passwordUpper.MatchString(password) || !passwordLower.MatchString(password) ||
		!passwordDigit.MatchString(password) || !passwordSpecial.MatchString(password) {
		return BadRequest("password needs an uppercase letter, a lowercase letter, a digit and a special character")
	}
	return nil
}

func ValidateName(name string) error {
	if err := ValidateLength("name", name, 2, 12); err != nil {
		return err
	}
	if !nameRegex.MatchString(name) {
		return BadRequest("name can only contain letters")
	}
	return nil
}

func ValidateNickname(nickname string) error {
	return ValidateLength("nickname", strings.TrimSpace(nickname), 2, 6)
}

func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return BadRequest("email is required")
	}
	if !emailRegex.MatchString(email) {
		return BadRequest("invalid email format")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateKeyword(keyword string) error {
	if err := ValidateLength("keyword", keyword, 2, 8); err != nil {
		return err
	}
	if !keywordRegex.MatchString(keyword) {
		return BadRequest("keyword can only contain letters")
	}
	return nil
}

func ValidateCode(code string) error {
	if !codeRegex.MatchString(code) {
		return BadRequest("code must be 6 digits")
	}
	return nil
}
