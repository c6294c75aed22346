package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduler_service/internal/config"
)

func TestIsEmailValid(t *testing.T) {
	t.Parallel()

	valid := []string{
		"foo@bar.com",
		"foo.bar42@c.com",
		"42@c.com",
		"f@42.co",
		"foo@4-2.team",
		"foo_bar@bar.com",
		"_bar@bar.com",
		"foo_@bar.com",
		"foo+bar@bar.com",
		"+bar@bar.com",
		"foo+@bar.com",
		"foo.lastname@bar.com",
		"dYDPFjl5bBwaJvE@scheduler.iv",
	}

	for _, email := range valid {
		assert.True(t, IsEmailValid(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@bar.com",
		"foo@",
	}

	for _, email := range invalid {
		assert.False(t, IsEmailValid(email), "expected %q to be invalid", email)
	}
}

func strictPolicy() config.PasswordPolicy {
	return config.PasswordPolicy{
		MinLen:         8,
		MaxLen:         8,
		MinCapitals:    2,
		MinDigits:      1,
		MinSpecial:     2,
		SpecialSymbols: "!@#$%^&*",
	}
}

func TestIsPasswordValid_AllCriteriaMet(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPasswordValid("AbcD1x!#", strictPolicy()))
}

func TestIsPasswordValid_EachCriterionIndependent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
	}{
		{"no capitals", "abcd1x!#"},
		{"too short", "AbD1x!#"},
		{"too long", "AbcD1x!#9"},
		{"no digits", "AbcDyx!#"},
		{"no specials", "AbcD1xyz"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.False(t, IsPasswordValid(tt.password, strictPolicy()))
		})
	}
}

func TestPasswordViolations_NamesFailedCriterion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"too short", "AbD1x!#", "at least 8 characters"},
		{"too long", "AbcD1x!#9", "at most 8 characters"},
		{"no capitals", "abcd1x!#", "at least 2 uppercase letters"},
		{"no digits", "AbcDyx!#", "at least 1 digits"},
		{"no specials", "AbcD1xyz", `at least 2 of the symbols "!@#$%^&*"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations := PasswordViolations(tt.password, strictPolicy())
			require.Len(t, violations, 1)
			assert.Contains(t, violations[0], tt.want)
		})
	}
}

func TestPasswordViolations_EmptyForValidPassword(t *testing.T) {
	t.Parallel()

	assert.Empty(t, PasswordViolations("AbcD1x!#", strictPolicy()))
}

func TestPasswordViolations_ReportsEveryFailure(t *testing.T) {
	t.Parallel()

	// Fails length, capitals, digits and specials at once.
	violations := PasswordViolations("abc", strictPolicy())
	assert.Len(t, violations, 4)
}

func TestIsPasswordValid_FlippedPolicyFieldRejects(t *testing.T) {
	t.Parallel()

	// The same password fails once any single policy field becomes
	// unreachable for it.
	base := strictPolicy()
	password := "AbcD1x!#"

	assert.True(t, IsPasswordValid(password, base))

	capitals := base
	capitals.MinCapitals = 3
	assert.False(t, IsPasswordValid(password, capitals))

	digits := base
	digits.MinDigits = 2
	assert.False(t, IsPasswordValid(password, digits))

	special := base
	special.MinSpecial = 3
	assert.False(t, IsPasswordValid(password, special))

	length := base
	length.MinLen = 9
	length.MaxLen = 9
	assert.False(t, IsPasswordValid(password, length))
}
