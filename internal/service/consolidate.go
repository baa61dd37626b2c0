package service

import (
	"context"
	"fmt"
	"time"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/repository"
)

const analysisUnavailable = "analysis unavailable"

// consolidate merges storage and analysis records by sequence number into
// one project record, commits it, and shapes the caller-visible result. It
// runs only after every persistence and analysis operation has finished.
func (s *pipelineService) consolidate(ctx context.Context, batch *model.UploadBatch, folderName string, storage []model.StorageRecord, analysis []model.AnalysisRecord) (*UploadResult, error) {
	bySeq := make(map[int]*model.AnalysisRecord, len(analysis))
	for i := range analysis {
		bySeq[analysis[i].Seq] = &analysis[i]
	}

	record := &model.ProjectRecord{
		UserID:     batch.UserID,
		Title:      batch.Title,
		FolderName: folderName,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Context:    batch.Context,
	}

	result := &UploadResult{
		FolderName: folderName,
		Rejected:   batch.Rejected,
	}

	for _, sr := range storage {
		ar := bySeq[sr.Seq]

		switch sr.Kind {
		case model.MediaKindImage:
			img := model.ImageResult{
				Seq:          sr.Seq,
				Filename:     sr.Filename,
				S3URL:        sr.Locator,
				StorageError: sr.Error,
			}
			applyAnalysis(ar, &img.AnalysisResult, &img.Analyzed, &img.FailureReason)
			record.Images = append(record.Images, img)

			if sr.Error == "" {
				result.ImagesProcessed++
				result.StoredImages = append(result.StoredImages, StoredFile{
					Filename: sr.Filename,
					Locator:  sr.Locator,
				})
			}

		case model.MediaKindSpreadsheet:
			excel := model.ExcelResult{
				Seq:          sr.Seq,
				Filename:     sr.Filename,
				S3URL:        sr.Locator,
				StorageError: sr.Error,
			}
			if ar != nil {
				excel.RowCount = ar.RowCount
				excel.Columns = ar.Columns
				excel.Insights = ar.Insights
			}
			applyAnalysis(ar, &excel.AnalysisResult, &excel.Analyzed, &excel.FailureReason)
			record.Excel = &excel

			result.ExcelProcessed = excel.Analyzed
			if sr.Error == "" {
				result.StoredExcel = &StoredFile{
					Filename: sr.Filename,
					Locator:  sr.Locator,
				}
			}
		}
	}

	if err := s.projects.Save(ctx, record); err != nil {
		return nil, &ConsolidationError{Err: err}
	}

	result.DBReference = fmt.Sprintf("%s#%s", repository.UserPK(batch.UserID), repository.ProjectSK(folderName))

	return result, nil
}

func applyAnalysis(ar *model.AnalysisRecord, summary *string, analyzed *bool, failureReason *string) {
	if ar == nil {
		*failureReason = analysisUnavailable
		return
	}
	if !ar.Succeeded {
		*failureReason = ar.FailureReason
		return
	}
	*summary = ar.Summary
	*analyzed = true
}
