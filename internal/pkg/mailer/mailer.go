package mailer

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SESMailer sends plain-text mail through Amazon SES.
type SESMailer struct {
	client *sesv2.Client
	sender string
}

func NewSESMailer(region, accessKeyID, secretAccessKey, sender string) *SESMailer {
	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		sender: sender,
	}
}

func (m *SESMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// MockMailer logs instead of sending. Used in tests and local runs without
// SES credentials.
type MockMailer struct{}

func (m *MockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	fmt.Printf("Email to %s [%s]: %s\n", to, subject, body)
	return nil
}

func GenerateVerificationCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
