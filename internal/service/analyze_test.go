package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"skylens/mediascope/internal/model"

	"go.uber.org/zap"
)

type failingAI struct{}

func (failingAI) Analyze(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return "", context.DeadlineExceeded
}

func (failingAI) AnalyzeImage(ctx context.Context, prompt string, image []byte, mediaType string, maxTokens int) (string, error) {
	return "", context.DeadlineExceeded
}

func TestParseSpreadsheet(t *testing.T) {
	data := xlsxBytes(t,
		[]string{"Name", "Amount"},
		[][]string{
			{"alpha", "10"},
			{"beta", "20"},
			{"gamma", "30"},
		},
	)

	sheet, err := parseSpreadsheet(data)
	if err != nil {
		t.Fatalf("parseSpreadsheet: %v", err)
	}

	if sheet.rowCount != 3 {
		t.Errorf("rowCount = %d, want 3", sheet.rowCount)
	}
	if len(sheet.columns) != 2 || sheet.columns[1] != "Amount" {
		t.Errorf("columns = %v", sheet.columns)
	}
	if len(sheet.insights) != 3 {
		t.Errorf("insights = %d, want 3", len(sheet.insights))
	}
	if !strings.Contains(sheet.rowTexts[0], "Name: alpha") {
		t.Errorf("rowTexts[0] = %q", sheet.rowTexts[0])
	}
}

func TestParseSpreadsheetRowCaps(t *testing.T) {
	var rows [][]string
	for i := 0; i < 25; i++ {
		rows = append(rows, []string{"item" + strconv.Itoa(i)})
	}

	sheet, err := parseSpreadsheet(xlsxBytes(t, []string{"Item"}, rows))
	if err != nil {
		t.Fatalf("parseSpreadsheet: %v", err)
	}

	if sheet.rowCount != 25 {
		t.Errorf("rowCount = %d, want 25", sheet.rowCount)
	}
	if len(sheet.rowTexts) != promptRowLimit {
		t.Errorf("rowTexts = %d, want %d", len(sheet.rowTexts), promptRowLimit)
	}
	if len(sheet.insights) != rowInsightLimit {
		t.Errorf("insights = %d, want %d", len(sheet.insights), rowInsightLimit)
	}
	if sheet.insights[0].RowIndex != 0 || sheet.insights[4].RowIndex != 4 {
		t.Errorf("insight row indexes = %d..%d", sheet.insights[0].RowIndex, sheet.insights[4].RowIndex)
	}
}

func TestParseSpreadsheetGarbage(t *testing.T) {
	if _, err := parseSpreadsheet([]byte("this is not a workbook")); err == nil {
		t.Fatal("expected parse error for non-xlsx bytes")
	}
}

func TestParseSpreadsheetUnnamedColumns(t *testing.T) {
	sheet, err := parseSpreadsheet(xlsxBytes(t,
		[]string{"Known", ""},
		[][]string{{"a", "b"}},
	))
	if err != nil {
		t.Fatalf("parseSpreadsheet: %v", err)
	}

	if !strings.Contains(sheet.rowTexts[0], "column_2: b") {
		t.Errorf("rowTexts[0] = %q, want fallback column name", sheet.rowTexts[0])
	}
}

func TestAnalyzeSpreadsheetParseFailure(t *testing.T) {
	svc := &pipelineService{ai: &fakeAI{}, log: zap.NewNop().Sugar()}

	entry := &model.RawFileEntry{Seq: 0, Filename: "bad.xlsx", Data: []byte("junk")}
	record := svc.analyzeSpreadsheet(context.Background(), entry, "")

	if record.Succeeded {
		t.Error("record marked succeeded for unparseable workbook")
	}
	if !strings.Contains(record.FailureReason, "failed to parse spreadsheet") {
		t.Errorf("FailureReason = %q", record.FailureReason)
	}
}

func TestAnalyzeSpreadsheetKeepsLocalInsightsOnInferenceFailure(t *testing.T) {
	data := xlsxBytes(t, []string{"K"}, [][]string{{"v"}})
	ai := &failingAI{}
	svc := &pipelineService{ai: ai, log: zap.NewNop().Sugar()}

	record := svc.analyzeSpreadsheet(context.Background(), &model.RawFileEntry{Filename: "r.xlsx", Data: data}, "")

	if record.Succeeded {
		t.Error("record marked succeeded despite inference failure")
	}
	// Local parsing results survive a failed remote call.
	if record.RowCount != 1 || len(record.Insights) != 1 {
		t.Errorf("local results lost: rowCount=%d insights=%d", record.RowCount, len(record.Insights))
	}
}

func TestImagePromptIncludesContext(t *testing.T) {
	if got := imagePrompt("beach trip"); !strings.HasPrefix(got, "Context: beach trip\n") {
		t.Errorf("prompt = %q", got)
	}
	if got := imagePrompt(""); strings.Contains(got, "Context:") {
		t.Errorf("empty context still produced a context line: %q", got)
	}
}

func TestSpreadsheetPromptShape(t *testing.T) {
	sheet := &sheetData{
		columns:  []string{"City", "Nights"},
		rowCount: 7,
		rowTexts: []string{"City: Lisbon, Nights: 3", "City: Porto, Nights: 2"},
	}

	prompt := spreadsheetPrompt("trip planning", sheet)

	for _, want := range []string{
		"Context: trip planning",
		"Column Headers: City, Nights",
		"Total Rows: 7",
		"City: Lisbon, Nights: 3; City: Porto, Nights: 2",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
