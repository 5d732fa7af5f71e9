package security

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"account-service/internal/domain"
	"account-service/internal/repository"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("p1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("p1")))

	again, err := hasher.Hash("p1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestBcryptHasherRejectsOverlongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = hasher.Hash(strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestBcryptHasherFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}

type stubAccounts struct {
	repository.AccountRepository
	account *domain.Account
	err     error
}

func (s *stubAccounts) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.account == nil || s.account.Email != email {
		return nil, repository.ErrNotFound
	}
	return s.account, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("p1")
	require.NoError(t, err)
	auth := NewPasswordAuthenticator(&stubAccounts{account: &domain.Account{ID: 1, Email: "u@x.com", PasswordHash: hash}})
	ctx := context.Background()

	assert.NoError(t, auth.Authenticate(ctx, "u@x.com", "p1"))
	assert.ErrorIs(t, auth.Authenticate(ctx, "u@x.com", "wrong"), ErrBadCredentials)
	assert.ErrorIs(t, auth.Authenticate(ctx, "U@x.com", "p1"), ErrBadCredentials)
	assert.ErrorIs(t, auth.Authenticate(ctx, "nobody@x.com", "p1"), ErrBadCredentials)
}

func TestPasswordAuthenticatorPropagatesStoreErrors(t *testing.T) {
	auth := NewPasswordAuthenticator(&stubAccounts{err: errors.New("db down")})

	err := auth.Authenticate(context.Background(), "u@x.com", "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadCredentials)
	assert.ErrorContains(t, err, "db down")
}
