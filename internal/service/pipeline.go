package service

import (
	"context"
	"regexp"
	"time"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadInput is one analyze request as handed over by the transport layer.
// File bodies arrive as single-consumption streams behind FilePart.Open;
// ingestion is the only stage that ever touches them.
type UploadInput struct {
	UserID  string
	Title   string
	Context string
	Images  []FilePart
	Excel   *FilePart
}

// StoredFile is the externally visible storage outcome for one file.
type StoredFile struct {
	Filename string `json:"filename"`
	Locator  string `json:"locator"`
}

// UploadResult is what one completed batch reports back. It carries
// locators, counts and text only, never file bytes.
type UploadResult struct {
	FolderName      string
	ImagesProcessed int
	ExcelProcessed  bool
	Rejected        []model.Rejection
	StoredImages    []StoredFile
	StoredExcel     *StoredFile
	DBReference     string
}

type pipelineService struct {
	store    ObjectStore
	ai       Inference
	projects repository.ProjectRepository
	log      *zap.SugaredLogger
}

func NewPipelineService(store ObjectStore, ai Inference, projects repository.ProjectRepository, log *zap.SugaredLogger) PipelineService {
	return &pipelineService{
		store:    store,
		ai:       ai,
		projects: projects,
		log:      log,
	}
}

// ProcessUpload runs the four stages in order. Stages two and three
// parallelize internally per file; consolidation starts only after both
// have finished every file.
func (s *pipelineService) ProcessUpload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	batchID := uuid.New().String()

	batch, err := s.ingest(input)
	if err != nil {
		return nil, err
	}

	folderName := generateFolderName(batch.Title, time.Now().UTC())
	s.log.Infow("batch accepted",
		"batch_id", batchID,
		"user_id", batch.UserID,
		"folder", folderName,
		"images", len(batch.Images),
		"spreadsheet", batch.Spreadsheet != nil,
		"rejected", len(batch.Rejected),
	)

	storageRecords := s.persist(ctx, batch, folderName)
	analysisRecords := s.analyze(ctx, batch)

	result, err := s.consolidate(ctx, batch, folderName, storageRecords, analysisRecords)
	if err != nil {
		return nil, err
	}

	s.log.Infow("batch consolidated", "batch_id", batchID, "db_reference", result.DBReference)

	return result, nil
}

var titleSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]+`)

const defaultTitleLabel = "untitled"

// generateFolderName derives the batch folder from the timestamp and the
// sanitized title. Uniqueness holds only down to one second per user/title.
func generateFolderName(title string, now time.Time) string {
	clean := titleSanitizer.ReplaceAllString(title, "_")
	clean = trimUnderscores(clean)
	if clean == "" {
		clean = defaultTitleLabel
	}

	return now.Format("20060102_150405") + "_" + clean
}

func trimUnderscores(s string) string {
	start, end := 0, len(s)
	for start < end && s[start] == '_' {
		start++
	}
	for end > start && s[end-1] == '_' {
		end--
	}
	return s[start:end]
}
