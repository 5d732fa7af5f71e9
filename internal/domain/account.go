package domain

import "time"

// Account represents a registered user account, including its credentials.
type Account struct {
	ID              int64
	GivenNames      string
	Surnames        string
	ShippingAddress string
	Email           string
	BirthDate       time.Time
	PasswordHash    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile is the externally visible projection of an Account.
type Profile struct {
	ID              int64
	GivenNames      string
	Surnames        string
	ShippingAddress string
	Email           string
	BirthDate       time.Time
}

// Registration carries the data needed to create an account.
type Registration struct {
	GivenNames      string
	Surnames        string
	ShippingAddress string
	Email           string
	BirthDate       time.Time
	Password        string
}

// Credentials is a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token      string
	ID         int64
	Email      string
	GivenNames string
	Surnames   string
}

// CallerIdentity is the authenticated identity behind a request, as carried
// by a verified bearer token.
type CallerIdentity struct {
	AccountID int64
	Email     string
}
