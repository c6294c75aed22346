package passhash

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	encoded, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := Verify(encoded, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_WrongPasswordIsMismatchNotError(t *testing.T) {
	t.Parallel()

	encoded, err := Hash("right password")
	require.NoError(t, err)

	ok, err := Verify(encoded, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	first, err := Hash("same password")
	require.NoError(t, err)

	second, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify_RejectsForeignVersion(t *testing.T) {
	t.Parallel()

	encoded, err := Hash("some password")
	require.NoError(t, err)

	tampered := strings.Replace(encoded, fmt.Sprintf("$v=%d$", argon2.Version), "$v=18$", 1)
	require.NotEqual(t, encoded, tampered)

	ok, err := Verify(tampered, "some password")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestVerify_MalformedHashIsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not a hash", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0"},
		{"wrong version", "$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0"},
		{"broken params", "$argon2id$v=19$nonsense$c2FsdA$ZGlnZXN0"},
		{"broken salt", "$argon2id$v=19$m=65536,t=1,p=4$!!!$ZGlnZXN0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := Verify(tt.encoded, "whatever")
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}
