package usecases

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinimumPasswordLength is the shortest password Register accepts.
const MinimumPasswordLength = 8

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z!#$%&'*+\-/=?^_` + "`" + `{|}~0-9.]*@[a-zA-Z.]+\.[a-zA-Z][a-zA-Z]+$`)
	blankPattern = regexp.MustCompile(`^[ \n]*$`)

	hasSymbol    = regexp.MustCompile("[!@#$%^&*()_+=`~]")
	hasNumber    = regexp.MustCompile(`[0-9]`)
	hasLowercase = regexp.MustCompile(`[a-z]`)
	hasUppercase = regexp.MustCompile(`[A-Z]`)
)

// ValidEmail checks an account email address: a local part of letters,
// digits and common symbols, an '@', and a dotted domain of letters.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword requires at least MinimumPasswordLength characters mixing
// upper and lower case letters, digits and symbols.
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinimumPasswordLength &&
		hasSymbol.MatchString(password) &&
		hasNumber.MatchString(password) &&
		hasLowercase.MatchString(password) &&
		hasUppercase.MatchString(password)
}

// InputEmpty reports whether input holds nothing but spaces and newlines.
func InputEmpty(input string) bool {
	return blankPattern.MatchString(input)
}

// ValidPayee is the looser check applied to payout addresses.
func ValidPayee(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}
