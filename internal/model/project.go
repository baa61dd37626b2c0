package model

// ProjectRecord is the consolidated item persisted per batch. Written once
// by consolidation; the pipeline never updates it. Only locators, filenames
// and text ever live here, never file bytes.
type ProjectRecord struct {
	PK         string         `dynamodbav:"pk" json:"-"`
	SK         string         `dynamodbav:"sk" json:"-"`
	UserID     string         `dynamodbav:"user_id" json:"user_id"`
	Title      string         `dynamodbav:"title" json:"title"`
	FolderName string         `dynamodbav:"folder_name" json:"folder_name"`
	CreatedAt  string         `dynamodbav:"created_at" json:"created_at"`
	Context    string         `dynamodbav:"context" json:"context"`
	Images     []ImageResult  `dynamodbav:"images,omitempty" json:"images"`
	Excel      *ExcelResult   `dynamodbav:"excel,omitempty" json:"excel,omitempty"`
}

// ImageResult is one image's merged storage + analysis outcome.
type ImageResult struct {
	Seq            int    `dynamodbav:"seq" json:"seq"`
	Filename       string `dynamodbav:"filename" json:"filename"`
	S3URL          string `dynamodbav:"s3_url" json:"s3_url"`
	StorageError   string `dynamodbav:"storage_error,omitempty" json:"storage_error,omitempty"`
	AnalysisResult string `dynamodbav:"analysis_result" json:"analysis_result"`
	Analyzed       bool   `dynamodbav:"analyzed" json:"analyzed"`
	FailureReason  string `dynamodbav:"failure_reason,omitempty" json:"failure_reason,omitempty"`
}

// ExcelResult is the spreadsheet's merged storage + analysis outcome.
type ExcelResult struct {
	Seq            int          `dynamodbav:"seq" json:"seq"`
	Filename       string       `dynamodbav:"filename" json:"filename"`
	S3URL          string       `dynamodbav:"s3_url" json:"s3_url"`
	StorageError   string       `dynamodbav:"storage_error,omitempty" json:"storage_error,omitempty"`
	AnalysisResult string       `dynamodbav:"analysis_result" json:"analysis_result"`
	RowCount       int          `dynamodbav:"row_count" json:"row_count"`
	Columns        []string     `dynamodbav:"columns,omitempty" json:"columns"`
	Insights       []RowInsight `dynamodbav:"insights,omitempty" json:"insights"`
	Analyzed       bool         `dynamodbav:"analyzed" json:"analyzed"`
	FailureReason  string       `dynamodbav:"failure_reason,omitempty" json:"failure_reason,omitempty"`
}

// ProjectSummary is the list-view projection of a project.
type ProjectSummary struct {
	ProjectID     string `json:"project_id"`
	FolderName    string `json:"folder_name"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	Context       string `json:"context"`
	HasImages     bool   `json:"has_images"`
	HasExcel      bool   `json:"has_excel"`
	ImageCount    int    `json:"image_count"`
	ExcelAnalyzed bool   `json:"excel_analyzed"`
}
