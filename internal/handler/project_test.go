package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"skylens/mediascope/internal/model"
	"skylens/mediascope/internal/repository"

	"github.com/gorilla/mux"
)

type fakeProjectService struct {
	summaries []*model.ProjectSummary
	hasMore   bool
	record    *model.ProjectRecord
	err       error
	userIDs   []string
	gotLimit  int32
}

func (f *fakeProjectService) ListProjects(ctx context.Context, userID string, limit int32) ([]*model.ProjectSummary, bool, error) {
	f.gotLimit = limit
	return f.summaries, f.hasMore, f.err
}

func (f *fakeProjectService) ProjectDetails(ctx context.Context, userID, projectID string) (*model.ProjectRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeProjectService) CountUsers(ctx context.Context) ([]string, error) {
	return f.userIDs, f.err
}

func projectRouter(svc *fakeProjectService) *mux.Router {
	router := mux.NewRouter()
	NewProjectHandler(svc).RegisterRoutes(router)
	return router
}

func TestListProjects(t *testing.T) {
	svc := &fakeProjectService{
		summaries: []*model.ProjectSummary{
			{ProjectID: "20250314_092653_Trip", Title: "Trip", ImageCount: 2},
		},
		hasMore: true,
	}

	req := httptest.NewRequest("GET", "/projects/u1?limit=5", nil)
	rr := httptest.NewRecorder()
	projectRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if svc.gotLimit != 5 {
		t.Errorf("limit = %d, want 5", svc.gotLimit)
	}

	var resp UserProjectsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.UserID != "u1" || resp.TotalProjects != 1 || !resp.HasMore || resp.Limit != 5 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestListProjectsDefaultLimit(t *testing.T) {
	svc := &fakeProjectService{}

	req := httptest.NewRequest("GET", "/projects/u1", nil)
	rr := httptest.NewRecorder()
	projectRouter(svc).ServeHTTP(rr, req)

	if svc.gotLimit != defaultProjectLimit {
		t.Errorf("limit = %d, want %d", svc.gotLimit, defaultProjectLimit)
	}
}

func TestListProjectsBadLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/projects/u1?limit=zero", nil)
	rr := httptest.NewRecorder()
	projectRouter(&fakeProjectService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestProjectDetails(t *testing.T) {
	svc := &fakeProjectService{
		record: &model.ProjectRecord{
			UserID:     "u1",
			FolderName: "20250314_092653_Trip",
			Images:     []model.ImageResult{{Filename: "a.jpg"}, {Filename: "b.jpg"}},
			Excel:      &model.ExcelResult{Filename: "r.xlsx"},
		},
	}

	req := httptest.NewRequest("GET", "/projects/u1/20250314_092653_Trip", nil)
	rr := httptest.NewRecorder()
	projectRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp ProjectDetailsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ProjectID != "20250314_092653_Trip" {
		t.Errorf("project id = %q", resp.ProjectID)
	}
	if resp.Metadata.ImageCount != 2 || !resp.Metadata.HasExcel || resp.Metadata.TotalFiles != 3 {
		t.Errorf("metadata = %+v", resp.Metadata)
	}
}

func TestProjectDetailsNotFound(t *testing.T) {
	svc := &fakeProjectService{err: repository.ErrProjectNotFound}

	req := httptest.NewRequest("GET", "/projects/u1/nope", nil)
	rr := httptest.NewRecorder()
	projectRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestCountUsers(t *testing.T) {
	svc := &fakeProjectService{userIDs: []string{"a", "b", "c"}}

	req := httptest.NewRequest("GET", "/users/count", nil)
	rr := httptest.NewRecorder()
	projectRouter(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp UsersCountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalUniqueUsers != 3 || len(resp.UserIDs) != 3 {
		t.Errorf("resp = %+v", resp)
	}
}
