package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
)

const testEmail = "deadpool@example.com"

func newIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", 0, 0)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.IssueAccessToken(testEmail, 0)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	email, err := iss.ValidateAccessToken(tok)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if email != testEmail {
		t.Errorf("subject = %q, want %q", email, testEmail)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.IssueRefreshToken(testEmail)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}
	email, err := iss.ValidateRefreshToken(tok)
	if err != nil {
		t.Fatalf("validate refresh token: %v", err)
	}
	if email != testEmail {
		t.Errorf("subject = %q, want %q", email, testEmail)
	}
}

func TestScopeMismatchRejected(t *testing.T) {
	iss := newIssuer()
	access, _ := iss.IssueAccessToken(testEmail, 0)
	refresh, _ := iss.IssueRefreshToken(testEmail)

	if _, err := iss.ValidateAccessToken(refresh); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token, err = %v", err)
	}
	if _, err := iss.ValidateRefreshToken(access); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token, err = %v", err)
	}
}

func TestEmailTokenHasNoScopeCheck(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.IssueEmailToken(testEmail)
	if err != nil {
		t.Fatalf("issue email token: %v", err)
	}
	email, err := iss.EmailFromToken(tok)
	if err != nil {
		t.Fatalf("email from token: %v", err)
	}
	if email != testEmail {
		t.Errorf("subject = %q, want %q", email, testEmail)
	}
	// An email token must not pass scoped validation.
	if _, err := iss.ValidateAccessToken(tok); err == nil {
		t.Error("email token accepted as access token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.sign(testEmail, ScopeAccess, -10)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := iss.ValidateAccessToken(tok); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Errorf("expired token accepted, err = %v", err)
	}
}

func TestTamperedSignatureRejected(t *testing.T) {
	iss := newIssuer()
	other := NewTokenIssuer("other-secret", 0, 0)
	tok, _ := other.IssueAccessToken(testEmail, 0)
	if _, err := iss.ValidateAccessToken(tok); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Errorf("token signed with wrong secret accepted, err = %v", err)
	}
}

func TestNonHMACAlgorithmRejected(t *testing.T) {
	iss := newIssuer()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, scopedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testEmail,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Scope: ScopeAccess,
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := iss.ValidateAccessToken(tok); !errors.Is(err, domerrors.ErrInvalidToken) {
		t.Errorf("alg=none token accepted, err = %v", err)
	}
}

func TestValidationErrorIsGeneric(t *testing.T) {
	iss := newIssuer()
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := iss.ValidateAccessToken(tok); !errors.Is(err, domerrors.ErrInvalidToken) {
			t.Errorf("token %q: err = %v, want ErrInvalidToken", tok, err)
		}
	}
}
