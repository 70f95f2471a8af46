package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tinylink-dev/tinylink/internal/auth"
	"github.com/tinylink-dev/tinylink/internal/domain"
	"github.com/tinylink-dev/tinylink/internal/email"
	"github.com/tinylink-dev/tinylink/internal/metrics"
	"github.com/tinylink-dev/tinylink/internal/repository"
)

type AuthUsecase struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenService
	email  email.Sender
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService, emailSender email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
	}
}

type SignupInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// Signup creates an account and returns the new user ID. Returns
// domain.ErrEmailTaken when the email is already registered.
func (u *AuthUsecase) Signup(ctx context.Context, input SignupInput) (string, error) {
	_, err := u.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return "", domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("find user by email: %w", err)
	}

	digest, salt, err := u.hasher.Hash(input.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Firstname:    input.Firstname,
		Lastname:     input.Lastname,
		Email:        input.Email,
		PasswordHash: digest,
		Salt:         salt,
	})
	if err != nil {
		// The unique constraint can still fire if two signups race
		// past the lookup above.
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", domain.ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	metrics.SignupsTotal.Inc()

	// Best effort: a failed welcome email must not fail the signup.
	subject := "Welcome to tinylink"
	body := fmt.Sprintf("<p>Hi %s, your account is ready. Start shortening links right away.</p>", created.Firstname)
	if err := u.email.Send(ctx, created.Email, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "send welcome email", "error", err)
	}

	return created.ID, nil
}

// Login verifies the password against the stored salted digest and
// returns a signed bearer token. Returns domain.ErrUserNotFound for an
// unknown email and domain.ErrInvalidCredentials on a wrong password.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("find user by email: %w", err)
	}

	ok, err := u.hasher.Compare(password, user.Salt, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
