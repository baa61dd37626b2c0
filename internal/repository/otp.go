package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skylens/mediascope/internal/model"

	"github.com/redis/go-redis/v9"
)

type OTPRepository interface {
	SaveVerificationCode(ctx context.Context, email, code string, expiresIn time.Duration) error
	GetVerificationCode(ctx context.Context, email string) (*model.VerificationCode, error)
	DeleteVerificationCode(ctx context.Context, email string) error
}

type otpRepository struct {
	rdb *redis.Client
}

func NewOTPRepository(rdb *redis.Client) OTPRepository {
	return &otpRepository{rdb: rdb}
}

func (r *otpRepository) key(email string) string {
	return fmt.Sprintf("password-reset:%s", email)
}

func (r *otpRepository) SaveVerificationCode(ctx context.Context, email, code string, expiresIn time.Duration) error {
	verification := model.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(expiresIn),
	}

	data, err := json.Marshal(verification)
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, r.key(email), data, expiresIn).Err()
}

func (r *otpRepository) GetVerificationCode(ctx context.Context, email string) (*model.VerificationCode, error) {
	data, err := r.rdb.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		return nil, err
	}

	var verification model.VerificationCode
	if err := json.Unmarshal(data, &verification); err != nil {
		return nil, err
	}

	return &verification, nil
}

func (r *otpRepository) DeleteVerificationCode(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, r.key(email)).Err()
}
