package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerhub/backend/internal/auth"
	"github.com/careerhub/backend/internal/db"
	"github.com/google/uuid"
)

// fakeJobStore is an in-memory JobStore for exercising the handlers
// without a database.
type fakeJobStore struct {
	jobs map[uuid.UUID]*db.Job
}

func newFakeJobStore(jobs ...*db.Job) *fakeJobStore {
	s := &fakeJobStore{jobs: make(map[uuid.UUID]*db.Job)}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeJobStore) Create(_ context.Context, job *db.Job) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *fakeJobStore) GetByID(_ context.Context, id uuid.UUID) (*db.Job, error) {
	if j, ok := s.jobs[id]; ok {
		copied := *j
		return &copied, nil
	}
	return nil, db.ErrJobNotFound
}

func (s *fakeJobStore) List(_ context.Context, _ db.JobFilter) ([]db.Job, int, error) {
	out := make([]db.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	return out, len(out), nil
}

func (s *fakeJobStore) Update(_ context.Context, job *db.Job) error {
	if _, ok := s.jobs[job.ID]; !ok {
		return db.ErrJobNotFound
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *fakeJobStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.jobs[id]; !ok {
		return db.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

type fakeApplicationStore struct {
	apps map[uuid.UUID]*db.Application
}

func newFakeApplicationStore(apps ...*db.Application) *fakeApplicationStore {
	s := &fakeApplicationStore{apps: make(map[uuid.UUID]*db.Application)}
	for _, a := range apps {
		s.apps[a.ID] = a
	}
	return s
}

func (s *fakeApplicationStore) Create(_ context.Context, app *db.Application) error {
	s.apps[app.ID] = app
	return nil
}

func (s *fakeApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*db.Application, error) {
	if a, ok := s.apps[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, db.ErrApplicationNotFound
}

func (s *fakeApplicationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]db.Application, error) {
	var out []db.Application
	for _, a := range s.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.apps[id]; !ok {
		return db.ErrApplicationNotFound
	}
	delete(s.apps, id)
	return nil
}

// authedRequest builds a request carrying a resolved identity and an id
// path parameter, the shape handlers see after the auth gate and mux.
func authedRequest(method, target, id string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.SetPathValue("id", id)
	ctx := context.WithValue(req.Context(), auth.UserContextKey, &auth.UserContext{
		UserID: userID,
		Email:  "caller@x.com",
	})
	return req.WithContext(ctx)
}

func TestDeleteJob_Ownership(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	job := &db.Job{
		ID:       uuid.New(),
		Title:    "Backend Engineer",
		Company:  "Acme",
		PostedBy: owner,
	}

	tests := []struct {
		name       string
		jobID      string
		caller     uuid.UUID
		wantStatus int
	}{
		{
			name:       "owner may delete",
			jobID:      job.ID.String(),
			caller:     owner,
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-owner is forbidden",
			jobID:      job.ID.String(),
			caller:     stranger,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown id is not found",
			jobID:      uuid.New().String(),
			caller:     owner,
			wantStatus: http.StatusNotFound,
		},
		{
			// A non-owner asking about a missing id learns nothing beyond 404.
			name:       "unknown id stays not found for non-owner",
			jobID:      uuid.New().String(),
			caller:     stranger,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed id is a bad request",
			jobID:      "not-a-uuid",
			caller:     owner,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJobHandlers(newFakeJobStore(job), nil, nil, nil)
			req := authedRequest(http.MethodDelete, "/api/v1/jobs/"+tt.jobID, tt.jobID, tt.caller)
			rec := httptest.NewRecorder()

			h.DeleteJob(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUpdateJob_NonOwnerForbidden(t *testing.T) {
	job := &db.Job{
		ID:       uuid.New(),
		Title:    "Backend Engineer",
		Company:  "Acme",
		PostedBy: uuid.New(),
	}
	h := NewJobHandlers(newFakeJobStore(job), nil, nil, nil)

	req := authedRequest(http.MethodPut, "/api/v1/jobs/"+job.ID.String(), job.ID.String(), uuid.New())
	rec := httptest.NewRecorder()

	h.UpdateJob(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestDeleteApplication_Ownership(t *testing.T) {
	applicant := uuid.New()
	stranger := uuid.New()
	app := &db.Application{
		ID:       uuid.New(),
		JobID:    uuid.New(),
		UserID:   applicant,
		JobTitle: "Backend Engineer",
		Company:  "Acme",
	}

	tests := []struct {
		name       string
		appID      string
		caller     uuid.UUID
		wantStatus int
	}{
		{
			name:       "applicant may withdraw",
			appID:      app.ID.String(),
			caller:     applicant,
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-applicant is forbidden",
			appID:      app.ID.String(),
			caller:     stranger,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown id is not found",
			appID:      uuid.New().String(),
			caller:     stranger,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewApplicationHandlers(newFakeApplicationStore(app), newFakeJobStore(), nil, nil)
			req := authedRequest(http.MethodDelete, "/api/v1/applications/"+tt.appID, tt.appID, tt.caller)
			rec := httptest.NewRecorder()

			h.DeleteApplication(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body %s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewJob_StampsTimestamps(t *testing.T) {
	req := &CreateJobRequest{Title: "  Backend Engineer ", Company: "Acme"}
	job := newJob(req, uuid.New(), sql.NullString{})

	if job.CreatedAt.IsZero() {
		t.Error("created_at must be stamped at insert time, not left zero")
	}
	if !job.CreatedAt.Equal(job.UpdatedAt) {
		t.Errorf("created_at and updated_at must match on insert: %v vs %v", job.CreatedAt, job.UpdatedAt)
	}
	if job.Title != "Backend Engineer" {
		t.Errorf("expected trimmed title, got %q", job.Title)
	}
}

func TestNewApplication_StampsAppliedAt(t *testing.T) {
	job := &db.Job{ID: uuid.New(), Title: "Backend Engineer", Company: "Acme"}
	app := newApplication(job, uuid.New())

	if app.AppliedAt.IsZero() {
		t.Error("applied_at must be stamped at insert time, not left zero")
	}
	if app.JobTitle != job.Title || app.Company != job.Company {
		t.Errorf("application must denormalize the job title and company, got %q/%q", app.JobTitle, app.Company)
	}
}
