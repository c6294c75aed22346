// Package passhash hashes and verifies passwords with argon2id. The encoded
// form is self-describing (PHC string: algorithm, params, salt and digest),
// so verification needs nothing beyond the hash itself.
package passhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultTime    = 1
	defaultMemory  = 64 * 1024 // KiB
	defaultThreads = 4
	saltLen        = 32
	keyLen         = 32
)

// ErrInvalidHash means the stored hash could not be evaluated at all. It is
// distinct from a plain mismatch, which Verify reports as (false, nil).
var ErrInvalidHash = errors.New("malformed password hash")

func Hash(password string) (string, error) {
	const op = "passhash.Hash"

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	digest := argon2.IDKey([]byte(password), salt, defaultTime, defaultMemory, defaultThreads, keyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		defaultMemory,
		defaultTime,
		defaultThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// Verify re-derives the digest with the parameters embedded in encodedHash
// and compares in constant time.
func Verify(encodedHash, password string) (bool, error) {
	const op = "passhash.Verify"

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	if parts[1] != "argon2id" {
		return false, fmt.Errorf("%s: unsupported algorithm %q: %w", op, parts[1], ErrInvalidHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	if version != argon2.Version {
		return false, fmt.Errorf("%s: unsupported version %d: %w", op, version, ErrInvalidHash)
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, ErrInvalidHash)
	}

	if len(expected) == 0 {
		return false, fmt.Errorf("%s: empty digest: %w", op, ErrInvalidHash)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
