package service

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"go.uber.org/zap"
)

func testIngestService() *pipelineService {
	return &pipelineService{log: zap.NewNop().Sugar()}
}

// countingPart simulates a transport stream that can only be read once.
func countingPart(name, contentType string, data []byte, opens *int) FilePart {
	consumed := false
	return FilePart{
		Filename:    name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			*opens++
			if consumed {
				return nil, errors.New("stream already consumed")
			}
			consumed = true
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestIngestDrainsEachStreamOnce(t *testing.T) {
	data := []byte("image-payload")
	opens := 0

	batch, err := testIngestService().ingest(UploadInput{
		UserID: "u1",
		Images: []FilePart{countingPart("a.jpg", "image/jpeg", data, &opens)},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if opens != 1 {
		t.Errorf("stream opened %d times, want 1", opens)
	}
	if !bytes.Equal(batch.Images[0].Data, data) {
		t.Error("materialized data differs from stream content")
	}
	if batch.Images[0].Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", batch.Images[0].Size, len(data))
	}
}

func TestIngestRejectsNonImageContentType(t *testing.T) {
	batch, err := testIngestService().ingest(UploadInput{
		UserID: "u1",
		Images: []FilePart{
			bytesPart("notes.txt", "text/plain", []byte("hello")),
			bytesPart("ok.png", "image/png", []byte("png")),
		},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if len(batch.Images) != 1 {
		t.Fatalf("accepted %d images, want 1", len(batch.Images))
	}
	if len(batch.Rejected) != 1 || batch.Rejected[0].Filename != "notes.txt" {
		t.Errorf("rejections = %+v", batch.Rejected)
	}
}

func TestIngestOpenFailureBecomesRejection(t *testing.T) {
	broken := FilePart{
		Filename:    "broken.jpg",
		ContentType: "image/jpeg",
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("connection reset")
		},
	}

	batch, err := testIngestService().ingest(UploadInput{
		UserID: "u1",
		Images: []FilePart{broken, bytesPart("ok.jpg", "image/jpeg", []byte("x"))},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if len(batch.Rejected) != 1 {
		t.Fatalf("rejections = %+v", batch.Rejected)
	}
	if len(batch.Images) != 1 || batch.Images[0].Seq != 0 {
		t.Errorf("surviving image got seq %d, want 0", batch.Images[0].Seq)
	}
}

func TestIngestSpreadsheetContentTypes(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		accepted    bool
	}{
		{"xlsx mime", "r.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"xls mime", "r.xls", "application/vnd.ms-excel", true},
		{"octet-stream with xlsx extension", "r.xlsx", "application/octet-stream", true},
		{"octet-stream with wrong extension", "r.csv", "application/octet-stream", false},
		{"plain text", "r.xlsx", "text/plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excel := bytesPart(tt.filename, tt.contentType, []byte("payload"))
			batch, err := testIngestService().ingest(UploadInput{
				UserID: "u1",
				Images: []FilePart{bytesPart("a.jpg", "image/jpeg", []byte("x"))},
				Excel:  &excel,
			})
			if err != nil {
				t.Fatalf("ingest: %v", err)
			}

			if got := batch.Spreadsheet != nil; got != tt.accepted {
				t.Errorf("accepted = %v, want %v", got, tt.accepted)
			}
			if !tt.accepted && len(batch.Rejected) != 1 {
				t.Errorf("rejections = %+v", batch.Rejected)
			}
		})
	}
}

func TestIngestSequenceNumbers(t *testing.T) {
	excel := bytesPart("r.xlsx", "application/vnd.ms-excel", []byte("sheet"))
	batch, err := testIngestService().ingest(UploadInput{
		UserID: "u1",
		Images: []FilePart{
			bytesPart("a.jpg", "image/jpeg", []byte("1")),
			bytesPart("b.jpg", "image/jpeg", []byte("2")),
		},
		Excel: &excel,
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	for i, img := range batch.Images {
		if img.Seq != i {
			t.Errorf("image %d has seq %d", i, img.Seq)
		}
	}
	if batch.Spreadsheet.Seq != 2 {
		t.Errorf("spreadsheet seq = %d, want 2", batch.Spreadsheet.Seq)
	}
}
