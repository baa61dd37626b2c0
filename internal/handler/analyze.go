package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/pkg/httputils"
	"skylens/mediascope/internal/service"

	"github.com/gorilla/mux"
)

// Uploads are materialized in memory, so cap the request size up front.
const maxUploadBytes = 50 << 20

type AnalyzeHandler struct {
	pipeline service.PipelineService
}

func NewAnalyzeHandler(pipeline service.PipelineService) *AnalyzeHandler {
	return &AnalyzeHandler{pipeline: pipeline}
}

func (h *AnalyzeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/analyze/upload", h.analyzeUpload).Methods("POST", "OPTIONS")
}

type StorageDetails struct {
	Images []service.StoredFile `json:"images"`
	Excel  *service.StoredFile  `json:"excel,omitempty"`
}

type UploadResponse struct {
	Status          string            `json:"status"`
	FolderName      string            `json:"folder_name"`
	ImagesProcessed int               `json:"images_processed"`
	ExcelProcessed  bool              `json:"excel_processed"`
	RejectedFiles   []model.Rejection `json:"rejected_files,omitempty"`
	StorageDetails  StorageDetails    `json:"storage_details"`
	DBReference     string            `json:"db_reference"`
}

// @Summary Analyze upload
// @Description Store a batch of images and an optional Excel file, analyze them and consolidate the results into one project record
// @ID analyze-upload
// @Accept mpfd
// @Produce json
// @Param user_id formData string true "User identifier"
// @Param title formData string false "Project title"
// @Param context formData string false "Context applied to every file's analysis"
// @Param images formData file false "Image files"
// @Param excel formData file false "Excel document (.xls, .xlsx)"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /analyze/upload [post]
func (h *AnalyzeHandler) analyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	input := service.UploadInput{
		UserID:  r.FormValue("user_id"),
		Title:   r.FormValue("title"),
		Context: r.FormValue("context"),
	}

	for _, fh := range r.MultipartForm.File["images"] {
		input.Images = append(input.Images, filePart(fh))
	}

	if excels := r.MultipartForm.File["excel"]; len(excels) > 0 {
		part := filePart(excels[0])
		input.Excel = &part
	}

	result, err := h.pipeline.ProcessUpload(r.Context(), input)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			httputils.ResponseError(w, http.StatusBadRequest, validationErr.Reason)
			return
		}
		httputils.ResponseError(w, http.StatusInternalServerError, "Upload processing failed")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, UploadResponse{
		Status:          "success",
		FolderName:      result.FolderName,
		ImagesProcessed: result.ImagesProcessed,
		ExcelProcessed:  result.ExcelProcessed,
		RejectedFiles:   result.Rejected,
		StorageDetails: StorageDetails{
			Images: result.StoredImages,
			Excel:  result.StoredExcel,
		},
		DBReference: result.DBReference,
	})
}

// filePart hands the pipeline a one-shot opener. The multipart file itself
// stays out of reach of everything past ingestion.
func filePart(fh *multipart.FileHeader) service.FilePart {
	return service.FilePart{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
