package service

import (
	"context"

	"skylens/mediascope/internal/model"
)

// PipelineService runs the upload → storage → analysis → consolidation
// pipeline for one batch.
type PipelineService interface {
	ProcessUpload(ctx context.Context, input UploadInput) (*UploadResult, error)
}

// ProjectService reads consolidated records back out of the key-value store.
type ProjectService interface {
	ListProjects(ctx context.Context, userID string, limit int32) ([]*model.ProjectSummary, bool, error)
	ProjectDetails(ctx context.Context, userID, projectID string) (*model.ProjectRecord, error)
	CountUsers(ctx context.Context) ([]string, error)
}

type UserService interface {
	Register(ctx context.Context, email, password, fullName string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error
}

// ObjectStore is the durable file store the persistence stage writes to.
// Put returns an opaque locator for the stored object.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Inference is the AI capability the analysis stage calls. Two shapes:
// text-only and text plus one image. maxTokens bounds the reply length.
type Inference interface {
	Analyze(ctx context.Context, prompt string, maxTokens int) (string, error)
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mediaType string, maxTokens int) (string, error)
}
