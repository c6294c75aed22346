// Package token issues and verifies the stateless session tokens. A token is
// bound to the process-wide secret key and expires after a fixed window;
// there is no revocation before expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"scheduler_service/internal/models"
)

// DefaultTTL is the fixed validity window of an issued token.
const DefaultTTL = 24 * time.Hour

var (
	// ErrMalformed means the token could not be parsed or its signature is
	// wrong.
	ErrMalformed = errors.New("malformed token")
	// ErrOutOfWindow means the token is structurally valid but the current
	// time is outside [not_before, expiry].
	ErrOutOfWindow = errors.New("token outside validity window")
)

type Claims struct {
	jwt.RegisteredClaims
	AccountID int64 `json:"account_id"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (i *Issuer) Issue(accountID int64) (string, error) {
	const op = "token.Issue"

	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		AccountID: accountID,
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify is pure: it decrypts and validates with the process key and a clock
// read, no I/O.
func (i *Issuer) Verify(raw string) (models.Session, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return models.Session{}, ErrOutOfWindow
		}
		return models.Session{}, ErrMalformed
	}

	if !t.Valid {
		return models.Session{}, ErrMalformed
	}

	session := models.Session{AccountID: claims.AccountID}
	if claims.NotBefore != nil {
		session.NotBefore = claims.NotBefore.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
