package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

// Token scopes. Email verification tokens carry no scope claim.
const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

const (
	DefaultAccessExpiry  = 900    // 15 min
	DefaultRefreshExpiry = 604800 // 7 days
	DefaultEmailExpiry   = 604800 // 7 days
)

// TokenIssuer implements ports.TokenIssuer with HS256 over a shared secret.
type TokenIssuer struct {
	secret        []byte
	refreshExpiry int64
	emailExpiry   int64
}

type scopedClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

func NewTokenIssuer(secret string, refreshExpirySeconds, emailExpirySeconds int64) *TokenIssuer {
	if refreshExpirySeconds <= 0 {
		refreshExpirySeconds = DefaultRefreshExpiry
	}
	if emailExpirySeconds <= 0 {
		emailExpirySeconds = DefaultEmailExpiry
	}
	return &TokenIssuer{
		secret:        []byte(secret),
		refreshExpiry: refreshExpirySeconds,
		emailExpiry:   emailExpirySeconds,
	}
}

func (t *TokenIssuer) IssueAccessToken(email string, expiresInSeconds int64) (string, error) {
	if expiresInSeconds <= 0 {
		expiresInSeconds = DefaultAccessExpiry
	}
	return t.sign(email, ScopeAccess, expiresInSeconds)
}

func (t *TokenIssuer) IssueRefreshToken(email string) (string, error) {
	return t.sign(email, ScopeRefresh, t.refreshExpiry)
}

func (t *TokenIssuer) IssueEmailToken(email string) (string, error) {
	return t.sign(email, "", t.emailExpiry)
}

func (t *TokenIssuer) sign(email, scope string, expiresInSeconds int64) (string, error) {
	now := time.Now()
	claims := scopedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresInSeconds) * time.Second)),
		},
		Scope: scope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateAccessToken returns the subject email. Any failure (bad signature,
// expired, wrong scope, empty subject) collapses to ErrInvalidToken so the
// caller never learns which check failed.
func (t *TokenIssuer) ValidateAccessToken(tokenString string) (string, error) {
	return t.validateScoped(tokenString, ScopeAccess)
}

// ValidateRefreshToken returns the subject email, with the same fail-closed
// behavior as ValidateAccessToken.
func (t *TokenIssuer) ValidateRefreshToken(tokenString string) (string, error) {
	return t.validateScoped(tokenString, ScopeRefresh)
}

func (t *TokenIssuer) validateScoped(tokenString, expectedScope string) (string, error) {
	claims, err := t.parseClaims(tokenString)
	if err != nil {
		return "", domerrors.ErrInvalidToken
	}
	if claims.Scope != expectedScope || claims.Subject == "" {
		return "", domerrors.ErrInvalidToken
	}
	return claims.Subject, nil
}

// EmailFromToken returns the subject of an email verification token. Only the
// signature and expiry are checked; there is no scope claim on these tokens.
func (t *TokenIssuer) EmailFromToken(tokenString string) (string, error) {
	claims, err := t.parseClaims(tokenString)
	if err != nil || claims.Subject == "" {
		return "", domerrors.ErrEmailTokenInvalid
	}
	return claims.Subject, nil
}

func (t *TokenIssuer) parseClaims(tokenString string) (*scopedClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &scopedClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*scopedClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
