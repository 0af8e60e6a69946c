package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/furnistor/app/jobs"
	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/app/repositories"
	"github.com/shashiranjanraj/furnistor/pkg/auth"
	"github.com/shashiranjanraj/furnistor/pkg/logger"
	"github.com/shashiranjanraj/furnistor/pkg/queue"
)

const verificationTokenTTL = 24 * time.Hour

// AuthService implements registration, login and email verification.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates an unverified account and queues the verification email.
// Mail delivery is best-effort: a dispatch failure is logged and registration
// still succeeds. Returns the new user and a signed session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("services: hash password: %w", err)
	}

	token, err := verificationToken()
	if err != nil {
		return nil, "", fmt.Errorf("services: verification token: %w", err)
	}
	expires := time.Now().UTC().Add(verificationTokenTTL)

	user := &models.User{
		Name:                     name,
		Email:                    email,
		Password:                 hash,
		Role:                     models.RoleCustomer,
		IsEmailVerified:          false,
		VerificationToken:        token,
		VerificationTokenExpires: &expires,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	if err := queue.Dispatch(&jobs.VerificationEmailJob{
		Email: user.Email,
		Name:  user.Name,
		Token: token,
	}); err != nil {
		logger.WithCtx(ctx).Error("auth: queue verification email",
			"email", user.Email, "error", err)
	}

	jwt, err := auth.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("services: sign token: %w", err)
	}
	return user, jwt, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password both map to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	jwt, err := auth.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("services: sign token: %w", err)
	}
	return user, jwt, nil
}

// VerifyEmail flips isEmailVerified for a valid unexpired token and clears
// the token so it cannot be replayed.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	user.IsEmailVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpires = nil
	return user, nil
}

func verificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
