package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewJWTService("secret", "account-service", time.Hour)

	token, err := svc.Issue("u@x.com", 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	caller, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.CallerIdentity{AccountID: 42, Email: "u@x.com"}, caller)
}

func TestIssueCarriesRegisteredClaims(t *testing.T) {
	svc := NewJWTService("secret", "account-service", time.Hour)

	token, err := svc.Issue("u@x.com", 7)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "account-service", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueUsesUniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour)

	first, err := svc.Issue("u@x.com", 1)
	require.NoError(t, err)
	second, err := svc.Issue("u@x.com", 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret", "account-service", time.Hour).Issue("u@x.com", 1)
	require.NoError(t, err)

	_, err = NewJWTService("other", "account-service", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	token, err := NewJWTService("secret", "someone-else", time.Hour).Issue("u@x.com", 1)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "account-service", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", "account-service", time.Minute)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("u@x.com", 1)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := NewJWTService("secret", "account-service", time.Hour)
	token, err := svc.Issue("u@x.com", 1)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := NewJWTService("secret", "account-service", time.Hour).Issue("intruder@x.com", 2)
	require.NoError(t, err)
	parts[1] = strings.Split(forged, ".")[1]

	_, err = svc.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherSigningMethods(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "u@x.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingIdentityClaims(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "u@x.com",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", "", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewJWTService("secret", "", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
