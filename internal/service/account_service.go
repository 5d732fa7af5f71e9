package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"account-service/internal/domain"
	"account-service/internal/repository"
	"account-service/internal/security"
)

var (
	// ErrDuplicateEmail indicates the email is already held by another account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAccountNotFound indicates no account matched the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordTooLong indicates the password cannot be hashed.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// AccountService describes account lifecycle operations.
type AccountService interface {
	Register(ctx context.Context, req domain.Registration) (*domain.Profile, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Update(ctx context.Context, id int64, profile domain.Profile) (*domain.Profile, error)
}

type accountService struct {
	accounts repository.AccountRepository
	hasher   security.PasswordHasher
	auth     security.Authenticator
	tokens   security.TokenIssuer
	logger   *logrus.Logger
}

// NewAccountService builds an AccountService; a nil logger gets a default logrus logger.
func NewAccountService(
	accounts repository.AccountRepository,
	hasher security.PasswordHasher,
	auth security.Authenticator,
	tokens security.TokenIssuer,
	logger *logrus.Logger,
) AccountService {
	if logger == nil {
		logger = logrus.New()
	}
	return &accountService{
		accounts: accounts,
		hasher:   hasher,
		auth:     auth,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *accountService) Register(ctx context.Context, req domain.Registration) (*domain.Profile, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	saved, err := s.accounts.Save(ctx, &domain.Account{
		GivenNames:      req.GivenNames,
		Surnames:        req.Surnames,
		ShippingAddress: req.ShippingAddress,
		Email:           req.Email,
		BirthDate:       req.BirthDate,
		PasswordHash:    hash,
	})
	if err != nil {
		// the unique index catches registrations that raced past ExistsByEmail
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.logger.WithField("account_id", saved.ID).Info("account registered")
	profile := ToProfile(saved)
	return &profile, nil
}

func (s *accountService) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	if err := s.auth.Authenticate(ctx, creds.Email, creds.Password); err != nil {
		if errors.Is(err, security.ErrBadCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	account, err := s.accounts.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("authenticated account vanished before token issue")
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	token, err := s.tokens.Issue(account.Email, account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("account_id", account.ID).Info("account logged in")
	return &domain.LoginResult{
		Token:      token,
		ID:         account.ID,
		Email:      account.Email,
		GivenNames: account.GivenNames,
		Surnames:   account.Surnames,
	}, nil
}

func (s *accountService) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	profile := ToProfile(account)
	return &profile, nil
}

func (s *accountService) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapLookupError(err)
	}
	profile := ToProfile(account)
	return &profile, nil
}

// Update replaces every mutable profile field with the supplied values.
// The password hash is left as stored.
func (s *accountService) Update(ctx context.Context, id int64, profile domain.Profile) (*domain.Profile, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if account.Email != profile.Email {
		exists, err := s.accounts.ExistsByEmail(ctx, profile.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
	}

	account.GivenNames = profile.GivenNames
	account.Surnames = profile.Surnames
	account.ShippingAddress = profile.ShippingAddress
	account.Email = profile.Email
	account.BirthDate = profile.BirthDate

	saved, err := s.accounts.Save(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	s.logger.WithField("account_id", saved.ID).Info("account updated")
	updated := ToProfile(saved)
	return &updated, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}
