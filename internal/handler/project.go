package handler

import (
	"errors"
	"net/http"
	"strconv"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/pkg/httputils"
	"skylens/mediascope/internal/repository"
	"skylens/mediascope/internal/service"

	"github.com/gorilla/mux"
)

const defaultProjectLimit = 50

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/count", h.countUsers).Methods("GET", "OPTIONS")
	router.HandleFunc("/projects/{user_id}", h.listProjects).Methods("GET", "OPTIONS")
	router.HandleFunc("/projects/{user_id}/{project_id}", h.projectDetails).Methods("GET", "OPTIONS")
}

type UserProjectsResponse struct {
	UserID        string                  `json:"user_id"`
	TotalProjects int                     `json:"total_projects"`
	Projects      []*model.ProjectSummary `json:"projects"`
	HasMore       bool                    `json:"has_more"`
	Limit         int                     `json:"limit"`
}

// @Summary List projects
// @Description List a user's consolidated projects, newest first
// @ID list-projects
// @Produce json
// @Param user_id path string true "User identifier"
// @Param limit query int false "Maximum number of projects to return"
// @Success 200 {object} UserProjectsResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /projects/{user_id} [get]
func (h *ProjectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	limit := defaultProjectLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputils.ResponseError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	projects, hasMore, err := h.projectService.ListProjects(r.Context(), userID, int32(limit))
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, UserProjectsResponse{
		UserID:        userID,
		TotalProjects: len(projects),
		Projects:      projects,
		HasMore:       hasMore,
		Limit:         limit,
	})
}

type ProjectMetadata struct {
	ImageCount int  `json:"image_count"`
	HasExcel   bool `json:"has_excel"`
	TotalFiles int  `json:"total_files"`
}

type ProjectDetailsResponse struct {
	ProjectID string               `json:"project_id"`
	Project   *model.ProjectRecord `json:"project"`
	Metadata  ProjectMetadata      `json:"metadata"`
}

// @Summary Project details
// @Description Fetch one consolidated project record
// @ID project-details
// @Produce json
// @Param user_id path string true "User identifier"
// @Param project_id path string true "Project folder name"
// @Success 200 {object} ProjectDetailsResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /projects/{user_id}/{project_id} [get]
func (h *ProjectHandler) projectDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	record, err := h.projectService.ProjectDetails(r.Context(), vars["user_id"], vars["project_id"])
	if errors.Is(err, repository.ErrProjectNotFound) {
		httputils.ResponseError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}

	metadata := ProjectMetadata{
		ImageCount: len(record.Images),
		HasExcel:   record.Excel != nil,
	}
	metadata.TotalFiles = metadata.ImageCount
	if metadata.HasExcel {
		metadata.TotalFiles++
	}

	httputils.ResponseJSON(w, http.StatusOK, ProjectDetailsResponse{
		ProjectID: vars["project_id"],
		Project:   record,
		Metadata:  metadata,
	})
}

type UsersCountResponse struct {
	TotalUniqueUsers int      `json:"total_unique_users"`
	UserIDs          []string `json:"user_ids"`
}

// @Summary Count users
// @Description Count distinct users that own at least one record
// @ID count-users
// @Produce json
// @Success 200 {object} UsersCountResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /users/count [get]
func (h *ProjectHandler) countUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.projectService.CountUsers(r.Context())
	if err != nil {
		httputils.ResponseError(w, http.StatusInternalServerError, "Failed to count users")
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, UsersCountResponse{
		TotalUniqueUsers: len(ids),
		UserIDs:          ids,
	})
}
