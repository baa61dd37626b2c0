package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/pkg/auth"
	"skylens/mediascope/internal/pkg/mailer"
	"skylens/mediascope/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("invalid or expired verification code")
)

const resetCodeTTL = 10 * time.Minute

// Session is an authenticated login result.
type Session struct {
	Token     string
	TokenType string
	ExpiresIn int // seconds
	User      *model.User
}

type userService struct {
	users  repository.UserRepository
	otp    repository.OTPRepository
	mail   mailer.Mailer
	tokens *auth.TokenManager
	log    *zap.SugaredLogger
}

func NewUserService(users repository.UserRepository, otp repository.OTPRepository, mail mailer.Mailer, tokens *auth.TokenManager, log *zap.SugaredLogger) UserService {
	return &userService{
		users:  users,
		otp:    otp,
		mail:   mail,
		tokens: tokens,
		log:    log,
	}
}

// DeriveUserID maps an email to a stable 12-character id, so the raw
// address never becomes a partition key.
func DeriveUserID(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])[:12]
}

func (s *userService) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	userID := DeriveUserID(email)

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	user := &model.User{
		UserID:       userID,
		Email:        strings.ToLower(email),
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    timestamp,
		LastLogin:    timestamp,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "user_id", userID)

	return s.newSession(user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*Session, error) {
	userID := DeriveUserID(email)

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	if err := s.users.UpdateLastLogin(ctx, userID, timestamp); err != nil {
		return nil, err
	}
	user.LastLogin = timestamp

	return s.newSession(user)
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	userID := DeriveUserID(email)

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	code := mailer.GenerateVerificationCode()
	if err := s.otp.SaveVerificationCode(ctx, strings.ToLower(email), code, resetCodeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, int(resetCodeTTL.Minutes()))
	if err := s.mail.SendEmail(ctx, email, "Password reset code", body); err != nil {
		return err
	}

	s.log.Infow("password reset requested", "user_id", userID)
	return nil
}

func (s *userService) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error {
	verification, err := s.otp.GetVerificationCode(ctx, strings.ToLower(email))
	if err != nil {
		return ErrInvalidResetCode
	}

	if verification.Code != code || time.Now().After(verification.ExpiresAt) {
		return ErrInvalidResetCode
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID := DeriveUserID(email)
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.otp.DeleteVerificationCode(ctx, strings.ToLower(email)); err != nil {
		s.log.Warnw("failed to delete used verification code", "error", err)
	}

	s.log.Infow("password reset completed", "user_id", userID)
	return nil
}

func (s *userService) newSession(user *model.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.UserID, user.Email, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &Session{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(s.tokens.TTL().Seconds()),
		User:      user,
	}, nil
}
