package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"scheduler_service/internal/config"
	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/lib/passhash"
	"scheduler_service/internal/lib/token"
	"scheduler_service/internal/lib/validation"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// a caller cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidEmail       = errors.New("email format is invalid")
	ErrWeakPassword       = errors.New("password does not satisfy the policy")
)

type AccountSaver interface {
	SaveAccount(ctx context.Context, email, passHash string) (int64, error)
}

type AccountProvider interface {
	Account(ctx context.Context, email string) (models.Account, error)
}

type Publisher interface {
	SendMessage(ctx context.Context, msg models.Message) error
}

type Auth struct {
	log         *slog.Logger
	accSaver    AccountSaver
	accProvider AccountProvider
	publisher   Publisher
	issuer      *token.Issuer
	policy      config.PasswordPolicy
}

// New builds the auth service. publisher may be nil; registration then skips
// the notification.
func New(
	log *slog.Logger,
	accSaver AccountSaver,
	accProvider AccountProvider,
	publisher Publisher,
	issuer *token.Issuer,
	policy config.PasswordPolicy,
) *Auth {
	return &Auth{
		log:         log,
		accSaver:    accSaver,
		accProvider: accProvider,
		publisher:   publisher,
		issuer:      issuer,
		policy:      policy,
	}
}

// Register validates the credential format before any hashing or store work,
// then hashes and saves the account.
func (a *Auth) Register(ctx context.Context, email, password string) (int64, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	if !validation.IsEmailValid(email) {
		return 0, ErrInvalidEmail
	}

	if violations := validation.PasswordViolations(password, a.policy); len(violations) > 0 {
		return 0, fmt.Errorf("%w: password %s", ErrWeakPassword, strings.Join(violations, ", "))
	}

	passHash, err := passhash.Hash(password)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.accSaver.SaveAccount(ctx, email, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			log.Warn("account already exists")
			return 0, ErrAccountExists
		}

		log.Error("failed to save account", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account registered", slog.Int64("id", id))

	if a.publisher != nil {
		msg := models.Message{Email: email, Purpose: "registration"}
		if err := a.publisher.SendMessage(ctx, msg); err != nil {
			// Best effort, the account is already saved.
			log.Warn("failed to publish registration message", sl.Err(err))
		}
	}

	return id, nil
}

// Login verifies the credentials and returns a fresh session token.
func (a *Auth) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	account, err := a.accProvider.Account(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			log.Warn("account not found")
			return "", ErrInvalidCredentials
		}

		log.Error("failed to get account", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	verified, err := passhash.Verify(account.PassHash, password)
	if err != nil {
		// A hash that cannot be evaluated is a server-side failure, not a
		// wrong password.
		log.Error("failed to verify password", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !verified {
		log.Info("invalid credentials")
		return "", ErrInvalidCredentials
	}

	sessionToken, err := a.issuer.Issue(account.ID)
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("account logged in", slog.Int64("id", account.ID))

	return sessionToken, nil
}
