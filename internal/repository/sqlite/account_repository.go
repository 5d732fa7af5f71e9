package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"account-service/internal/domain"
	"account-service/internal/repository"
)

const dateLayout = "2006-01-02"

const createAccountsTable = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	given_names TEXT NOT NULL,
	surnames TEXT NOT NULL,
	shipping_address TEXT NULL,
	email TEXT NOT NULL UNIQUE,
	birth_date TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const selectAccount = `
SELECT id, given_names, surnames, shipping_address, email, birth_date, password_hash, created_at, updated_at
FROM accounts`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAccountsTable); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccount+`
WHERE id = ?`,
		id,
	)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, selectAccount+`
WHERE email = ?`,
		email,
	)
	return scanAccount(row)
}

func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	saved := *account
	now := time.Now().UTC()
	saved.UpdatedAt = now

	if saved.ID == 0 {
		saved.CreatedAt = now
		res, err := r.db.ExecContext(ctx, `
INSERT INTO accounts (given_names, surnames, shipping_address, email, birth_date, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			saved.GivenNames,
			saved.Surnames,
			nullString(saved.ShippingAddress),
			saved.Email,
			saved.BirthDate.Format(dateLayout),
			saved.PasswordHash,
			saved.CreatedAt,
			saved.UpdatedAt,
		)
		if err != nil {
			return nil, translateWriteError("insert account", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("account last insert id: %w", err)
		}
		saved.ID = id
		return &saved, nil
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE accounts
SET given_names=?, surnames=?, shipping_address=?, email=?, birth_date=?, password_hash=?, updated_at=?
WHERE id=?`,
		saved.GivenNames,
		saved.Surnames,
		nullString(saved.ShippingAddress),
		saved.Email,
		saved.BirthDate.Format(dateLayout),
		saved.PasswordHash,
		saved.UpdatedAt,
		saved.ID,
	)
	if err != nil {
		return nil, translateWriteError("update account", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("account rows affected: %w", err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.FindByID(ctx, saved.ID)
}

func translateWriteError(op string, err error) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicateEmail)
	}
	if strings.Contains(strings.ToLower(err.Error()), "unique") {
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
		account   domain.Account
		address   sql.NullString
		birthDate string
	)
	if err := row.Scan(
		&account.ID,
		&account.GivenNames,
		&account.Surnames,
		&address,
		&account.Email,
		&birthDate,
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

	parsed, err := time.Parse(dateLayout, birthDate)
	if err != nil {
		return nil, fmt.Errorf("parse birth date %q: %w", birthDate, err)
	}
	account.BirthDate = parsed
	return &account, nil
}
