package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/careerhub/backend/internal/auth"
	"github.com/careerhub/backend/internal/db"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/logger"
	"github.com/careerhub/backend/internal/metrics"
	"github.com/careerhub/backend/internal/websocket"
	"github.com/google/uuid"
)

// ApplicationStore is the application persistence the handlers need.
// Satisfied by *db.ApplicationRepository.
type ApplicationStore interface {
	Create(ctx context.Context, app *db.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore is the slice of the users repository used to name applicants
// in notifications.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*db.User, error)
}

type ApplicationHandlers struct {
	applicationRepo ApplicationStore
	jobRepo         JobStore
	userRepo        UserStore
	notifier        *websocket.Notifier
	log             *logger.Logger
}

func NewApplicationHandlers(applicationRepo ApplicationStore, jobRepo JobStore, userRepo UserStore, notifier *websocket.Notifier) *ApplicationHandlers {
	return &ApplicationHandlers{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		log:             logger.Default().WithComponent("applications"),
	}
}

type ApplyRequest struct {
	JobID string `json:"jobId"`
}

type ApplicationResponse struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company"`
	AppliedAt string    `json:"applied_at"`
}

type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Total        int                   `json:"total"`
}

// newApplication builds an application row, denormalizing the job title
// and company so a later job deletion keeps the row readable. The INSERT
// carries applied_at explicitly, so it is stamped here.
func newApplication(job *db.Job, userID uuid.UUID) *db.Application {
	return &db.Application{
		ID:        uuid.New(),
		JobID:     job.ID,
		UserID:    userID,
		JobTitle:  job.Title,
		Company:   job.Company,
		AppliedAt: time.Now(),
	}
}

func applicationResponse(app *db.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        app.ID,
		JobID:     app.JobID,
		JobTitle:  app.JobTitle,
		Company:   app.Company,
		AppliedAt: app.AppliedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Apply handles POST /api/v1/applications
// The applicant is always the authenticated user; a second application
// for the same job is rejected.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.ValidationError("jobId is required"))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, db.ErrJobNotFound) {
			apperrors.WriteError(w, requestID, apperrors.JobNotFound())
			return
		}
		h.log.Error(r.Context(), "failed to fetch job", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to fetch job"))
		return
	}

	app := newApplication(job, userCtx.UserID)

	if err := h.applicationRepo.Create(r.Context(), app); err != nil {
		if errors.Is(err, db.ErrAlreadyApplied) {
			apperrors.WriteError(w, requestID, apperrors.DuplicateApplication())
			return
		}
		h.log.Error(r.Context(), "failed to create application", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to create application"))
		return
	}

	// Skip the name lookup when the job owner has no open connections.
	if h.notifier != nil && h.notifier.HasConnectedClients(job.PostedBy) {
		applicantName := userCtx.Email
		if user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID); err == nil {
			applicantName = user.Name
		}
		h.notifier.ApplicationReceived(job.PostedBy, job.ID, job.Title, applicantName)
	}
	metrics.Default().IncApplicationsSubmitted()

	h.log.Info(r.Context(), "application submitted", map[string]interface{}{
		"application_id": app.ID,
		"job_id":         job.ID,
	})

	apperrors.WriteJSON(w, requestID, http.StatusCreated, applicationResponse(app))
}

// ListApplications handles GET /api/v1/applications
// Returns the authenticated user's own applications, newest first.
func (h *ApplicationHandlers) ListApplications(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	apps, err := h.applicationRepo.ListByUser(r.Context(), userCtx.UserID)
	if err != nil {
		h.log.Error(r.Context(), "failed to list applications", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to list applications"))
		return
	}

	response := ApplicationListResponse{
		Applications: make([]ApplicationResponse, 0, len(apps)),
		Total:        len(apps),
	}
	for i := range apps {
		response.Applications = append(response.Applications, applicationResponse(&apps[i]))
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, response)
}

// GetApplication handles GET /api/v1/applications/{id}
func (h *ApplicationHandlers) GetApplication(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	app, appErr := h.ownedApplication(r, userCtx.UserID)
	if appErr != nil {
		apperrors.WriteError(w, requestID, appErr)
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, applicationResponse(app))
}

// DeleteApplication handles DELETE /api/v1/applications/{id}
func (h *ApplicationHandlers) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	app, appErr := h.ownedApplication(r, userCtx.UserID)
	if appErr != nil {
		apperrors.WriteError(w, requestID, appErr)
		return
	}

	if err := h.applicationRepo.Delete(r.Context(), app.ID); err != nil {
		h.log.Error(r.Context(), "failed to delete application", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to delete application"))
		return
	}

	h.log.Info(r.Context(), "application withdrawn", map[string]interface{}{
		"application_id": app.ID,
	})

	apperrors.WriteJSON(w, requestID, http.StatusOK, map[string]string{
		"message": "application withdrawn",
	})
}

// ownedApplication fetches the application from the path and enforces
// ownership. A missing application reports 404 before the owner check.
func (h *ApplicationHandlers) ownedApplication(r *http.Request, userID uuid.UUID) (*db.Application, *apperrors.AppError) {
	appID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, apperrors.BadRequest("invalid application id")
	}

	app, err := h.applicationRepo.GetByID(r.Context(), appID)
	if err != nil {
		if errors.Is(err, db.ErrApplicationNotFound) {
			return nil, apperrors.ApplicationNotFound()
		}
		h.log.Error(r.Context(), "failed to fetch application", err)
		return nil, apperrors.DatabaseError("failed to fetch application")
	}

	if app.UserID != userID {
		return nil, apperrors.Forbidden("you do not own this application")
	}

	return app, nil
}
