package model

// MediaKind classifies an uploaded file for the pipeline.
type MediaKind string

const (
	MediaKindImage       MediaKind = "image"
	MediaKindSpreadsheet MediaKind = "spreadsheet"
)

// RawFileEntry is one uploaded file after ingestion. Data holds the fully
// drained body; the transport stream it came from is gone by the time an
// entry exists, so every later stage reads this buffer and nothing else.
type RawFileEntry struct {
	Seq         int
	Filename    string
	ContentType string
	Data        []byte
	Size        int64
}

// UploadBatch is the unit of work for one analyze request. Immutable once
// ingestion returns it.
type UploadBatch struct {
	UserID      string
	Title       string
	Context     string
	Images      []*RawFileEntry
	Spreadsheet *RawFileEntry
	Rejected    []Rejection
}

// Rejection records a file excluded during validation. Non-fatal, surfaced
// in the response.
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// StorageRecord is the outcome of persisting one entry to the object store.
// Error is empty on success. Records join back to analysis by Seq.
type StorageRecord struct {
	Seq      int
	Filename string
	Kind     MediaKind
	Locator  string
	Error    string
}

// RowInsight is one locally computed finding for a spreadsheet row.
type RowInsight struct {
	RowIndex int    `json:"row_index" dynamodbav:"row_index"`
	Summary  string `json:"summary" dynamodbav:"summary"`
}

// AnalysisRecord is the outcome of analyzing one entry. FailureReason is set
// iff Succeeded is false.
type AnalysisRecord struct {
	Seq           int
	Filename      string
	Kind          MediaKind
	Summary       string
	Insights      []RowInsight
	RowCount      int
	Columns       []string
	Succeeded     bool
	FailureReason string
}
