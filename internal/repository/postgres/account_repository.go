package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	"account-service/internal/domain"
	"account-service/internal/repository"
	"account-service/internal/repository/postgres/migrations"
)

const uniqueViolation = "23505"

const selectAccount = `
SELECT id, given_names, surnames, shipping_address, email, birth_date, password_hash, created_at, updated_at
FROM accounts`

// migrate is a seam for tests; it applies the embedded goose migrations.
var migrate = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &AccountRepository{db: db}
}

// Init brings the schema up to date.
func (r *AccountRepository) Init(ctx context.Context) error {
	if err := migrate(ctx, r.db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccount+`
WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccount+`
WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	saved := *account
	now := time.Now().UTC()
	saved.UpdatedAt = now

	if saved.ID == 0 {
		saved.CreatedAt = now
		err := r.db.QueryRowContext(ctx, `
INSERT INTO accounts (given_names, surnames, shipping_address, email, birth_date, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`,
			saved.GivenNames,
			saved.Surnames,
			nullString(saved.ShippingAddress),
			saved.Email,
			saved.BirthDate,
			saved.PasswordHash,
			saved.CreatedAt,
			saved.UpdatedAt,
		).Scan(&saved.ID)
		if err != nil {
			return nil, translateWriteError("insert account", err)
		}
		return &saved, nil
	}

	err := r.db.QueryRowContext(ctx, `
UPDATE accounts
SET given_names = $2, surnames = $3, shipping_address = $4, email = $5, birth_date = $6, password_hash = $7, updated_at = $8
WHERE id = $1
RETURNING created_at`,
		saved.ID,
		saved.GivenNames,
		saved.Surnames,
		nullString(saved.ShippingAddress),
		saved.Email,
		saved.BirthDate,
		saved.PasswordHash,
		saved.UpdatedAt,
	).Scan(&saved.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, translateWriteError("update account", err)
	}
	return &saved, nil
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicateEmail)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanAccount(row interface {
	Scan(dest ...any) error
}) (*domain.Account, error) {
	var (
		account domain.Account
		address sql.NullString
	)
	if err := row.Scan(
		&account.ID,
		&account.GivenNames,
		&account.Surnames,
		&address,
		&account.Email,
		&account.BirthDate,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.ShippingAddress = address.String
	account.BirthDate = account.BirthDate.UTC()
	return &account, nil
}
