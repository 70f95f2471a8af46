package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/tinylink-dev/tinylink/internal/auth"
	"github.com/tinylink-dev/tinylink/internal/domain"
	"github.com/tinylink-dev/tinylink/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	create      func(ctx context.Context, user *domain.User) (*domain.User, error)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newAuthUsecase(repo *fakeUserRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService([]byte(testJWTKey), time.Hour)
	return usecase.NewAuthUsecase(repo, hasher, tokens, sender, slog.Default())
}

var signupInput = usecase.SignupInput{
	Firstname: "A",
	Lastname:  "B",
	Email:     "a@x.com",
	Password:  "pw1pw1pw1",
}

// ---- Signup ----

func TestSignup_NewEmail_CreatesUserWithVerifiableDigest(t *testing.T) {
	var captured *domain.User

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			captured = user
			return user, nil
		},
	}

	userID, err := newAuthUsecase(repo, &fakeEmailSender{}).Signup(context.Background(), signupInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID == "" {
		t.Fatal("expected a non-empty user id")
	}
	if captured == nil {
		t.Fatal("user was not persisted")
	}
	if captured.PasswordHash == signupInput.Password {
		t.Error("password stored in plain text")
	}

	ok, err := auth.NewPasswordHasher().Compare(signupInput.Password, captured.Salt, captured.PasswordHash)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !ok {
		t.Error("stored digest does not verify against the signup password")
	}
}

func TestSignup_ExistingEmail_ReturnsErrEmailTaken(t *testing.T) {
	created := false
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: signupInput.Email}, nil
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			created = true
			return user, nil
		},
	}

	_, err := newAuthUsecase(repo, &fakeEmailSender{}).Signup(context.Background(), signupInput)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
	if created {
		t.Error("create was called despite duplicate email")
	}
}

func TestSignup_EmailSendFailure_DoesNotFailSignup(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			return user, nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error {
			return errors.New("smtp unavailable")
		},
	}

	if _, err := newAuthUsecase(repo, sender).Signup(context.Background(), signupInput); err != nil {
		t.Errorf("signup failed because of the welcome email: %v", err)
	}
}

func TestSignup_RaceOnUniqueConstraint_ReturnsErrEmailTaken(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}

	_, err := newAuthUsecase(repo, &fakeEmailSender{}).Signup(context.Background(), signupInput)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

// ---- Login ----

func storedUser(t *testing.T, password string) *domain.User {
	t.Helper()
	digest, salt, err := auth.NewPasswordHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: digest,
		Salt:         salt,
	}
}

func TestLogin_CorrectPassword_ReturnsVerifiableToken(t *testing.T) {
	user := storedUser(t, "pw1pw1pw1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return user, nil
		},
	}

	token, err := newAuthUsecase(repo, &fakeEmailSender{}).Login(context.Background(), user.Email, "pw1pw1pw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokens := auth.NewTokenService([]byte(testJWTKey), time.Hour)
	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token subject = %q, want %q", userID, user.ID)
	}
}

func TestLogin_WrongPassword_ReturnsErrInvalidCredentials(t *testing.T) {
	user := storedUser(t, "pw1pw1pw1")
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return user, nil
		},
	}

	_, err := newAuthUsecase(repo, &fakeEmailSender{}).Login(context.Background(), user.Email, "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_ReturnsErrUserNotFound(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := newAuthUsecase(repo, &fakeEmailSender{}).Login(context.Background(), "nobody@x.com", "pw")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}
