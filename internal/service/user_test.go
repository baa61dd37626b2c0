package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/pkg/auth"
	"skylens/mediascope/internal/repository"

	"go.uber.org/zap"
)

type fakeUsers struct {
	users map[string]*model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*model.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, userID string) (*model.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUsers) Exists(ctx context.Context, userID string) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeUsers) UpdateLastLogin(ctx context.Context, userID, timestamp string) error {
	if user, ok := f.users[userID]; ok {
		user.LastLogin = timestamp
	}
	return nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeOTP struct {
	codes map[string]*model.VerificationCode
}

func newFakeOTP() *fakeOTP {
	return &fakeOTP{codes: map[string]*model.VerificationCode{}}
}

func (f *fakeOTP) SaveVerificationCode(ctx context.Context, email, code string, expiresIn time.Duration) error {
	f.codes[email] = &model.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(expiresIn),
	}
	return nil
}

func (f *fakeOTP) GetVerificationCode(ctx context.Context, email string) (*model.VerificationCode, error) {
	code, ok := f.codes[email]
	if !ok {
		return nil, errors.New("no code")
	}
	return code, nil
}

func (f *fakeOTP) DeleteVerificationCode(ctx context.Context, email string) error {
	delete(f.codes, email)
	return nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, to)
	return nil
}

func newTestUserService(users *fakeUsers, otp *fakeOTP, mail *fakeMailer) UserService {
	tokens := auth.NewTokenManager("test-key", 1)
	return NewUserService(users, otp, mail, tokens, zap.NewNop().Sugar())
}

func TestDeriveUserIDStable(t *testing.T) {
	a := DeriveUserID("Person@Example.com")
	b := DeriveUserID("person@example.com")

	if a != b {
		t.Errorf("case-insensitive derivation broke: %q != %q", a, b)
	}
	if len(a) != 12 {
		t.Errorf("len = %d, want 12", len(a))
	}
	if a == DeriveUserID("other@example.com") {
		t.Error("distinct emails collided")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	svc := newTestUserService(users, newFakeOTP(), &fakeMailer{})

	session, err := svc.Register(context.Background(), "jane@example.com", "hunter2hunter2", "Jane Roe")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.Token == "" || session.TokenType != "bearer" {
		t.Errorf("session = %+v", session)
	}
	if session.User.UserID != DeriveUserID("jane@example.com") {
		t.Error("session user id does not match derived id")
	}

	if _, err := svc.Register(context.Background(), "jane@example.com", "whatever123", "Jane Roe"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register err = %v, want ErrEmailTaken", err)
	}

	if _, err := svc.Login(context.Background(), "jane@example.com", "hunter2hunter2"); err != nil {
		t.Errorf("Login: %v", err)
	}
	if _, err := svc.Login(context.Background(), "jane@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUsers()
	otp := newFakeOTP()
	mail := &fakeMailer{}
	svc := newTestUserService(users, otp, mail)

	if _, err := svc.Register(context.Background(), "jane@example.com", "originalpass", "Jane Roe"); err != nil {
		t.Fatal(err)
	}

	if err := svc.RequestPasswordReset(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mail.sent))
	}

	code := otp.codes["jane@example.com"].Code

	if err := svc.VerifyPasswordReset(context.Background(), "jane@example.com", "000000x", "newpassword1"); !errors.Is(err, ErrInvalidResetCode) {
		t.Errorf("wrong code err = %v, want ErrInvalidResetCode", err)
	}

	if err := svc.VerifyPasswordReset(context.Background(), "jane@example.com", code, "newpassword1"); err != nil {
		t.Fatalf("VerifyPasswordReset: %v", err)
	}

	if _, err := svc.Login(context.Background(), "jane@example.com", "newpassword1"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "jane@example.com", "originalpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Error("old password still accepted after reset")
	}
}

func TestPasswordResetUnknownUser(t *testing.T) {
	svc := newTestUserService(newFakeUsers(), newFakeOTP(), &fakeMailer{})

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestPasswordResetExpiredCode(t *testing.T) {
	users := newFakeUsers()
	otp := newFakeOTP()
	svc := newTestUserService(users, otp, &fakeMailer{})

	if _, err := svc.Register(context.Background(), "jane@example.com", "originalpass", "Jane Roe"); err != nil {
		t.Fatal(err)
	}

	otp.codes["jane@example.com"] = &model.VerificationCode{
		Email:     "jane@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if err := svc.VerifyPasswordReset(context.Background(), "jane@example.com", "123456", "newpassword1"); !errors.Is(err, ErrInvalidResetCode) {
		t.Errorf("expired code err = %v, want ErrInvalidResetCode", err)
	}
}
