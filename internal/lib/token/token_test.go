package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "RANDOM WORDS WINTER MACINTOSH PC"

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, DefaultTTL)

	raw, err := issuer.Issue(3)
	require.NoError(t, err)

	sess, err := issuer.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, int64(3), sess.AccountID)
	assert.True(t, sess.NotBefore.Before(sess.ExpiresAt))
	assert.WithinDuration(t, sess.NotBefore.Add(DefaultTTL), sess.ExpiresAt, time.Second)
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, DefaultTTL)

	raw, err := issuer.Issue(3)
	require.NoError(t, err)

	_, err = issuer.Verify(raw + "a")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := NewIssuer("one secret", DefaultTTL).Issue(7)
	require.NoError(t, err)

	_, err = NewIssuer("another secret", DefaultTTL).Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_NotAToken(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer(testSecret, DefaultTTL).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Nanosecond)

	raw, err := issuer.Issue(3)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestVerify_NotYetValid(t *testing.T) {
	t.Parallel()

	// Craft a token whose window opens in the future.
	now := time.Now()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
		},
		AccountID: 3,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, DefaultTTL).Verify(raw)
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestVerify_RejectsUnexpectedSigningMethod(t *testing.T) {
	t.Parallel()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		AccountID: 3,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer(testSecret, DefaultTTL).Verify(raw)
	assert.ErrorIs(t, err, ErrMalformed)
}
