package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"account-service/internal/domain"
)

// ErrInvalidToken is returned for tokens that fail parsing, signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer issues signed bearer tokens bound to an account.
type TokenIssuer interface {
	Issue(email string, accountID int64) (string, error)
}

// TokenVerifier turns a bearer token back into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (domain.CallerIdentity, error)
}

// Claims carried by access tokens. The subject holds the account id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTService signs and verifies HS256 tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret, issuer string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *JWTService) Issue(email string, accountID int64) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (domain.CallerIdentity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return domain.CallerIdentity{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 || claims.Email == "" {
		return domain.CallerIdentity{}, ErrInvalidToken
	}

	return domain.CallerIdentity{AccountID: id, Email: claims.Email}, nil
}

var (
	_ TokenIssuer   = (*JWTService)(nil)
	_ TokenVerifier = (*JWTService)(nil)
)
