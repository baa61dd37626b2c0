package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"skylens/mediascope/internal/model"
)

// FilePart is one uploaded file as the transport hands it over. Open yields
// a single-consumption stream; it is called exactly once, inside ingestion.
type FilePart struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

var spreadsheetMIMETypes = map[string]bool{
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

var spreadsheetExtensions = map[string]bool{
	".xls":  true,
	".xlsx": true,
}

// ingest validates the request and materializes every accepted file into an
// in-memory buffer. The original stream handles never leave this function,
// so no later stage can touch an exhausted reader. Per-file problems become
// rejections; only a missing user id or an empty batch is fatal.
func (s *pipelineService) ingest(input UploadInput) (*model.UploadBatch, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, &ValidationError{Reason: "missing user id"}
	}

	batch := &model.UploadBatch{
		UserID:  input.UserID,
		Title:   input.Title,
		Context: input.Context,
	}

	seq := 0
	for _, part := range input.Images {
		if !strings.HasPrefix(part.ContentType, "image/") {
			batch.Rejected = append(batch.Rejected, model.Rejection{
				Filename: part.Filename,
				Reason:   fmt.Sprintf("unsupported image content type %q", part.ContentType),
			})
			continue
		}

		entry, err := materialize(part, seq)
		if err != nil {
			batch.Rejected = append(batch.Rejected, model.Rejection{
				Filename: part.Filename,
				Reason:   fmt.Sprintf("failed to read upload: %v", err),
			})
			continue
		}

		batch.Images = append(batch.Images, entry)
		seq++
	}

	if input.Excel != nil {
		if !isSpreadsheet(*input.Excel) {
			batch.Rejected = append(batch.Rejected, model.Rejection{
				Filename: input.Excel.Filename,
				Reason:   fmt.Sprintf("unsupported spreadsheet content type %q", input.Excel.ContentType),
			})
		} else if entry, err := materialize(*input.Excel, seq); err != nil {
			batch.Rejected = append(batch.Rejected, model.Rejection{
				Filename: input.Excel.Filename,
				Reason:   fmt.Sprintf("failed to read upload: %v", err),
			})
		} else {
			batch.Spreadsheet = entry
		}
	}

	if len(batch.Images) == 0 && batch.Spreadsheet == nil {
		return nil, &ValidationError{Reason: "no usable media in request"}
	}

	return batch, nil
}

// isSpreadsheet accepts the two Excel MIME signatures, plus the generic
// octet-stream some browsers send as long as the extension matches.
func isSpreadsheet(part FilePart) bool {
	if spreadsheetMIMETypes[part.ContentType] {
		return true
	}
	if part.ContentType == "application/octet-stream" {
		return spreadsheetExtensions[strings.ToLower(filepath.Ext(part.Filename))]
	}
	return false
}

// materialize drains the part's stream exactly once into an owned buffer.
func materialize(part FilePart, seq int) (*model.RawFileEntry, error) {
	rc, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return &model.RawFileEntry{
		Seq:         seq,
		Filename:    part.Filename,
		ContentType: part.ContentType,
		Data:        data,
		Size:        int64(len(data)),
	}, nil
}
