package service

import (
	"context"
	"fmt"
	"sync"

	"skylens/mediascope/internal/model"
)

// persist writes every accepted buffer to the object store under the batch
// folder. Uploads for different files run concurrently; each one writes to
// its own result slot. A failed put is recorded on that file's record and
// never aborts the rest.
func (s *pipelineService) persist(ctx context.Context, batch *model.UploadBatch, folderName string) []model.StorageRecord {
	total := len(batch.Images)
	if batch.Spreadsheet != nil {
		total++
	}

	records := make([]model.StorageRecord, total)

	var wg sync.WaitGroup
	for i, entry := range batch.Images {
		wg.Add(1)
		go func(slot int, entry *model.RawFileEntry) {
			defer wg.Done()
			key := fmt.Sprintf("%s/images/%s", folderName, entry.Filename)
			records[slot] = s.persistOne(ctx, entry, model.MediaKindImage, key)
		}(i, entry)
	}

	if batch.Spreadsheet != nil {
		wg.Add(1)
		go func(slot int, entry *model.RawFileEntry) {
			defer wg.Done()
			key := fmt.Sprintf("%s/excel/%s", folderName, entry.Filename)
			records[slot] = s.persistOne(ctx, entry, model.MediaKindSpreadsheet, key)
		}(total-1, batch.Spreadsheet)
	}
	wg.Wait()

	return records
}

func (s *pipelineService) persistOne(ctx context.Context, entry *model.RawFileEntry, kind model.MediaKind, key string) model.StorageRecord {
	record := model.StorageRecord{
		Seq:      entry.Seq,
		Filename: entry.Filename,
		Kind:     kind,
	}

	locator, err := s.store.Put(ctx, key, entry.Data, entry.ContentType)
	if err != nil {
		s.log.Errorw("failed to store file", "filename", entry.Filename, "key", key, "error", err)
		record.Error = err.Error()
		return record
	}

	record.Locator = locator
	return record
}
