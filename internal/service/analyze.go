package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"skylens/mediascope/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	// Output budget for the bounded image summaries.
	imageSummaryMaxTokens = 300
	// Tabular analysis needs more room than an image summary.
	spreadsheetMaxTokens = 1000

	// Row caps for cost/latency control.
	rowInsightLimit = 5
	promptRowLimit  = 10
)

const imageInstruction = "Provide a factual summary of this image in about 50 words. " +
	"Cover the subject, the key visual elements and the primary purpose. " +
	"Do not describe incidental layout or color choices."

// analyze runs the image and spreadsheet paths. All inference calls are
// independent and issued concurrently; each writes only its own slot. A
// failed call yields a failed record for that file and nothing else.
func (s *pipelineService) analyze(ctx context.Context, batch *model.UploadBatch) []model.AnalysisRecord {
	total := len(batch.Images)
	if batch.Spreadsheet != nil {
		total++
	}

	records := make([]model.AnalysisRecord, total)

	var wg sync.WaitGroup
	for i, entry := range batch.Images {
		wg.Add(1)
		go func(slot int, entry *model.RawFileEntry) {
			defer wg.Done()
			records[slot] = s.analyzeImage(ctx, entry, batch.Context)
		}(i, entry)
	}

	if batch.Spreadsheet != nil {
		wg.Add(1)
		go func(slot int, entry *model.RawFileEntry) {
			defer wg.Done()
			records[slot] = s.analyzeSpreadsheet(ctx, entry, batch.Context)
		}(total-1, batch.Spreadsheet)
	}
	wg.Wait()

	return records
}

func (s *pipelineService) analyzeImage(ctx context.Context, entry *model.RawFileEntry, userContext string) model.AnalysisRecord {
	record := model.AnalysisRecord{
		Seq:      entry.Seq,
		Filename: entry.Filename,
		Kind:     model.MediaKindImage,
	}

	prompt := imagePrompt(userContext)
	summary, err := s.ai.AnalyzeImage(ctx, prompt, entry.Data, entry.ContentType, imageSummaryMaxTokens)
	if err != nil {
		s.log.Errorw("image analysis failed", "filename", entry.Filename, "error", err)
		record.FailureReason = err.Error()
		return record
	}

	record.Summary = summary
	record.Succeeded = true
	return record
}

func (s *pipelineService) analyzeSpreadsheet(ctx context.Context, entry *model.RawFileEntry, userContext string) model.AnalysisRecord {
	record := model.AnalysisRecord{
		Seq:      entry.Seq,
		Filename: entry.Filename,
		Kind:     model.MediaKindSpreadsheet,
	}

	sheet, err := parseSpreadsheet(entry.Data)
	if err != nil {
		s.log.Errorw("spreadsheet parsing failed", "filename", entry.Filename, "error", err)
		record.FailureReason = fmt.Sprintf("failed to parse spreadsheet: %v", err)
		return record
	}

	record.RowCount = sheet.rowCount
	record.Columns = sheet.columns
	record.Insights = sheet.insights

	summary, err := s.ai.Analyze(ctx, spreadsheetPrompt(userContext, sheet), spreadsheetMaxTokens)
	if err != nil {
		s.log.Errorw("spreadsheet analysis failed", "filename", entry.Filename, "error", err)
		record.FailureReason = err.Error()
		return record
	}

	record.Summary = summary
	record.Succeeded = true
	return record
}

type sheetData struct {
	columns  []string
	rowCount int
	rowTexts []string
	insights []model.RowInsight
}

// parseSpreadsheet reads the first sheet: header row as column names, data
// rows rendered as "col: val" text, locally computed insights for the first
// rowInsightLimit rows.
func parseSpreadsheet(data []byte) (*sheetData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	sheet := &sheetData{
		columns:  rows[0],
		rowCount: len(rows) - 1,
	}

	for idx, row := range rows[1:] {
		pairs := make([]string, 0, len(row))
		for col, val := range row {
			name := fmt.Sprintf("column_%d", col+1)
			if col < len(sheet.columns) && sheet.columns[col] != "" {
				name = sheet.columns[col]
			}
			pairs = append(pairs, fmt.Sprintf("%s: %s", name, val))
		}
		rowText := strings.Join(pairs, ", ")

		if idx < promptRowLimit {
			sheet.rowTexts = append(sheet.rowTexts, rowText)
		}
		if idx < rowInsightLimit {
			sheet.insights = append(sheet.insights, model.RowInsight{
				RowIndex: idx,
				Summary:  fmt.Sprintf("Row %d: %s", idx+1, rowText),
			})
		}
	}

	return sheet, nil
}

func imagePrompt(userContext string) string {
	if userContext == "" {
		return imageInstruction
	}
	return fmt.Sprintf("Context: %s\n%s", userContext, imageInstruction)
}

func spreadsheetPrompt(userContext string, sheet *sheetData) string {
	return fmt.Sprintf(`Context: %s
Excel Data Summary: %s
Column Headers: %s
Total Rows: %d

Please analyze this Excel data and provide insights including:
1. Data summary and patterns
2. Key metrics and statistics
3. Anomalies or notable observations
4. Recommendations based on the data`,
		userContext,
		strings.Join(sheet.rowTexts, "; "),
		strings.Join(sheet.columns, ", "),
		sheet.rowCount,
	)
}
