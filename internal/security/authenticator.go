package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"account-service/internal/repository"
)

// ErrBadCredentials is returned when an email/password pair does not verify.
var ErrBadCredentials = errors.New("bad credentials")

// Authenticator verifies an email and plaintext password against the stored hash.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) error
}

type PasswordAuthenticator struct {
	accounts repository.AccountRepository
}

func NewPasswordAuthenticator(accounts repository.AccountRepository) *PasswordAuthenticator {
	return &PasswordAuthenticator{accounts: accounts}
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) error {
	account, err := a.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBadCredentials
		}
		return fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
