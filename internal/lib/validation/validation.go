// Package validation holds the cheap, I/O-free credential format checks.
// Both predicates run before any hashing or database work.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"scheduler_service/internal/config"
)

var emailRegex = regexp.MustCompile(
	`^([a-zA-Z0-9_+]([a-zA-Z0-9_+.]*[a-zA-Z0-9_+])?)@([a-z0-9]+([\-\.]{1}[a-z0-9]+)*\.[a-z]{2,6})`,
)

func IsEmailValid(email string) bool {
	return emailRegex.MatchString(email)
}

// IsPasswordValid reports whether the password satisfies every criterion of
// the policy: length range, uppercase letters, digits and allowed special
// symbols, all counted over runes.
func IsPasswordValid(password string, policy config.PasswordPolicy) bool {
	return len(PasswordViolations(password, policy)) == 0
}

// PasswordViolations names every policy criterion the password fails, in
// check order. An empty slice means the password is valid.
func PasswordViolations(password string, policy config.PasswordPolicy) []string {
	runes := []rune(password)

	var violations []string

	if len(runes) < policy.MinLen {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", policy.MinLen))
	}
	if len(runes) > policy.MaxLen {
		violations = append(violations, fmt.Sprintf("must be at most %d characters", policy.MaxLen))
	}

	var capitals, digits, special int
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			capitals++
		case unicode.IsDigit(r):
			digits++
		}
		if strings.ContainsRune(policy.SpecialSymbols, r) {
			special++
		}
	}

	if capitals < policy.MinCapitals {
		violations = append(violations, fmt.Sprintf("must contain at least %d uppercase letters", policy.MinCapitals))
	}
	if digits < policy.MinDigits {
		violations = append(violations, fmt.Sprintf("must contain at least %d digits", policy.MinDigits))
	}
	if special < policy.MinSpecial {
		violations = append(violations, fmt.Sprintf("must contain at least %d of the symbols %q", policy.MinSpecial, policy.SpecialSymbols))
	}

	return violations
}
