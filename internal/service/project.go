package service

import (
	"context"
	"errors"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) ListProjects(ctx context.Context, userID string, limit int32) ([]*model.ProjectSummary, bool, error) {
	if userID == "" {
		return nil, false, errors.New("user id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	return s.projects.ListByUser(ctx, userID, limit)
}

func (s *projectService) ProjectDetails(ctx context.Context, userID, projectID string) (*model.ProjectRecord, error) {
	if userID == "" || projectID == "" {
		return nil, errors.New("user id and project id are required")
	}

	return s.projects.FindByKey(ctx, userID, projectID)
}

func (s *projectService) CountUsers(ctx context.Context) ([]string, error) {
	return s.projects.ListUserIDs(ctx)
}
