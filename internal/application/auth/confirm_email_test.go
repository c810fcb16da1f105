package auth

import (
	"context"
	"errors"
	"testing"

	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
	infraauth "github.com/rolodexhq/rolodex/internal/infrastructure/auth"
)

func TestConfirmEmailFlipsFlagOnce(t *testing.T) {
	user := confirmedUser("deadpool@example.com")
	user.Confirmed = false
	repo := newFakeUserRepo(user)
	issuer := infraauth.NewTokenIssuer("test-secret", 0, 0)
	uc := NewConfirmEmail(repo, issuer)
	ctx := context.Background()

	token, _ := issuer.IssueEmailToken(user.Email)
	result, err := uc.Execute(ctx, ConfirmEmailInput{Token: token})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if result.AlreadyConfirmed {
		t.Error("first confirmation reported as already confirmed")
	}
	got, _ := repo.GetByEmail(ctx, user.Email)
	if !got.Confirmed {
		t.Error("confirmed flag not set")
	}

	// Second call is an idempotent no-op.
	result, err = uc.Execute(ctx, ConfirmEmailInput{Token: token})
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	if !result.AlreadyConfirmed {
		t.Error("repeat confirmation not reported as already confirmed")
	}
}

func TestConfirmEmailUnknownUser(t *testing.T) {
	issuer := infraauth.NewTokenIssuer("test-secret", 0, 0)
	uc := NewConfirmEmail(newFakeUserRepo(), issuer)
	token, _ := issuer.IssueEmailToken("ghost@example.com")
	if _, err := uc.Execute(context.Background(), ConfirmEmailInput{Token: token}); !errors.Is(err, domerrors.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestConfirmEmailMalformedToken(t *testing.T) {
	issuer := infraauth.NewTokenIssuer("test-secret", 0, 0)
	uc := NewConfirmEmail(newFakeUserRepo(), issuer)
	if _, err := uc.Execute(context.Background(), ConfirmEmailInput{Token: "garbage"}); !errors.Is(err, domerrors.ErrEmailTokenInvalid) {
		t.Errorf("err = %v, want ErrEmailTokenInvalid", err)
	}
}

func TestSendConfirmationSilentForUnknownEmail(t *testing.T) {
	issuer := infraauth.NewTokenIssuer("test-secret", 0, 0)
	q := &recordingEnqueuer{}
	uc := NewSendConfirmation(newFakeUserRepo(), issuer, q, "http://localhost:8080/auth/confirm-email")

	if _, err := uc.Execute(context.Background(), SendConfirmationInput{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("unknown email must succeed silently: %v", err)
	}
	if len(q.emails) != 0 {
		t.Errorf("email enqueued for unknown account: %v", q.emails)
	}
}

func TestSendConfirmationSkipsConfirmedAccount(t *testing.T) {
	issuer := infraauth.NewTokenIssuer("test-secret", 0, 0)
	q := &recordingEnqueuer{}
	uc := NewSendConfirmation(newFakeUserRepo(confirmedUser("deadpool@example.com")), issuer, q, "http://localhost:8080/auth/confirm-email")

	result, err := uc.Execute(context.Background(), SendConfirmationInput{Email: "deadpool@example.com"})
	if err != nil {
		t.Fatalf("send confirmation: %v", err)
	}
	if !result.AlreadyConfirmed {
		t.Error("confirmed account not reported as already confirmed")
	}
	if len(q.emails) != 0 {
		t.Errorf("email enqueued for confirmed account: %v", q.emails)
	}
}

func TestSendConfirmationEnqueuesTokenLink(t *testing.T) {
	user := confirmedUser("deadpool@example.com")
	user.Confirmed = false
	issuer := infraauth.NewTokenIssuer("test-secret", 0, 0)
	q := &recordingEnqueuer{}
	uc := NewSendConfirmation(newFakeUserRepo(user), issuer, q, "http://localhost:8080/auth/confirm-email")

	if _, err := uc.Execute(context.Background(), SendConfirmationInput{Email: user.Email}); err != nil {
		t.Fatalf("send confirmation: %v", err)
	}
	if len(q.urls) != 1 {
		t.Fatalf("enqueued %d emails, want 1", len(q.urls))
	}
	token := q.urls[0][len("http://localhost:8080/auth/confirm-email/"):]
	email, err := issuer.EmailFromToken(token)
	if err != nil || email != user.Email {
		t.Errorf("link token resolves to %q, %v", email, err)
	}
}
