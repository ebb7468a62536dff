package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerhub/backend/internal/auth"
	"github.com/careerhub/backend/internal/cache"
	"github.com/careerhub/backend/internal/db"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/logger"
	"github.com/careerhub/backend/internal/metrics"
	"github.com/careerhub/backend/internal/storage"
	"github.com/careerhub/backend/internal/websocket"
	"github.com/google/uuid"
)

// maxAttachmentSize caps multipart job attachments at 10 MiB.
const maxAttachmentSize = 10 << 20

// JobStore is the job persistence the handlers need. Satisfied by
// *db.JobRepository.
type JobStore interface {
	Create(ctx context.Context, job *db.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*db.Job, error)
	List(ctx context.Context, filter db.JobFilter) ([]db.Job, int, error)
	Update(ctx context.Context, job *db.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type JobHandlers struct {
	jobRepo  JobStore
	cache    *cache.Cache
	uploader *storage.Uploader
	notifier *websocket.Notifier
	log      *logger.Logger
}

func NewJobHandlers(jobRepo JobStore, c *cache.Cache, uploader *storage.Uploader, notifier *websocket.Notifier) *JobHandlers {
	return &JobHandlers{
		jobRepo:  jobRepo,
		cache:    c,
		uploader: uploader,
		notifier: notifier,
		log:      logger.Default().WithComponent("jobs"),
	}
}

type JobResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location,omitempty"`
	Category      string    `json:"category,omitempty"`
	Salary        string    `json:"salary,omitempty"`
	Description   string    `json:"description,omitempty"`
	HasAttachment bool      `json:"has_attachment"`
	PostedBy      uuid.UUID `json:"posted_by"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

type JobListResponse struct {
	Jobs   []JobResponse `json:"jobs"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type CreateJobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
}

func jobResponse(job *db.Job) JobResponse {
	return JobResponse{
		ID:            job.ID,
		Title:         job.Title,
		Company:       job.Company,
		Location:      job.Location,
		Category:      job.Category,
		Salary:        job.Salary,
		Description:   job.Description,
		HasAttachment: job.AttachmentKey.Valid && job.AttachmentKey.String != "",
		PostedBy:      job.PostedBy,
		CreatedAt:     job.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:     job.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func parseIntParam(r *http.Request, name string, defaultValue int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

// ListJobs handles GET /api/v1/jobs
// Results are cached in Redis for a short TTL; any job write invalidates
// all cached pages.
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	filter := db.JobFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
		Limit:    parseIntParam(r, "limit", 20),
		Offset:   parseIntParam(r, "offset", 0),
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	cacheKey := cache.JobListKey(filter.Query, filter.Category, filter.Location, filter.Limit, filter.Offset)
	if h.cache != nil {
		if cached, ok := h.cache.Get(r.Context(), cacheKey); ok {
			metrics.Default().RecordCacheHit()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Request-ID", requestID)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
		metrics.Default().RecordCacheMiss()
	}

	jobs, total, err := h.jobRepo.List(r.Context(), filter)
	if err != nil {
		h.log.Error(r.Context(), "failed to list jobs", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to list jobs"))
		return
	}

	response := JobListResponse{
		Jobs:   make([]JobResponse, 0, len(jobs)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i := range jobs {
		response.Jobs = append(response.Jobs, jobResponse(&jobs[i]))
	}

	if h.cache != nil {
		if body, err := json.Marshal(response); err == nil {
			h.cache.Set(r.Context(), cacheKey, string(body), cache.DefaultJobListTTL)
		}
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, response)
}

// GetJob handles GET /api/v1/jobs/{id}
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid job id"))
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

	apperrors.WriteJSON(w, requestID, http.StatusOK, jobResponse(job))
}

// CreateJob handles POST /api/v1/jobs
// Accepts either a JSON body or a multipart form with an optional
// "attachment" file. The poster is always the authenticated user.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	var req CreateJobRequest
	var attachmentKey sql.NullString

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
			apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid multipart form"))
			return
		}
		req = CreateJobRequest{
			Title:       r.FormValue("title"),
			Company:     r.FormValue("company"),
			Location:    r.FormValue("location"),
			Category:    r.FormValue("category"),
			Salary:      r.FormValue("salary"),
			Description: r.FormValue("description"),
		}
		if _, fileHeader, err := r.FormFile("attachment"); err == nil {
			key, err := h.uploader.SaveUpload(r.Context(), fileHeader, storage.AttachmentPrefix)
			if err != nil {
				h.log.Error(r.Context(), "attachment upload failed", err)
				apperrors.WriteError(w, requestID, apperrors.StorageError("failed to store attachment"))
				return
			}
			attachmentKey = sql.NullString{String: key, Valid: true}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
			return
		}
	}

	if err := validateJobRequest(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.ValidationError(err.Error()))
		return
	}

	job := newJob(&req, userCtx.UserID, attachmentKey)

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		h.log.Error(r.Context(), "failed to create job", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to create job"))
		return
	}

	if h.cache != nil {
		h.cache.InvalidateJobLists(r.Context())
	}
	if h.notifier != nil {
		h.notifier.JobPosted(job.ID, job.Title, job.Company, job.Location, job.Category)
	}
	metrics.Default().IncJobsPosted()

	h.log.Info(r.Context(), "job created", map[string]interface{}{
		"job_id":    job.ID,
		"posted_by": userCtx.UserID,
	})

	apperrors.WriteJSON(w, requestID, http.StatusCreated, jobResponse(job))
}

// UpdateJob handles PUT /api/v1/jobs/{id}
func (h *JobHandlers) UpdateJob(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	job, appErr := h.ownedJob(r, userCtx.UserID)
	if appErr != nil {
		apperrors.WriteError(w, requestID, appErr)
		return
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := validateJobRequest(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.ValidationError(err.Error()))
		return
	}

	job.Title = strings.TrimSpace(req.Title)
	job.Company = strings.TrimSpace(req.Company)
	job.Location = strings.TrimSpace(req.Location)
	job.Category = strings.TrimSpace(req.Category)
	job.Salary = strings.TrimSpace(req.Salary)
	job.Description = req.Description
	job.UpdatedAt = time.Now()

	if err := h.jobRepo.Update(r.Context(), job); err != nil {
		h.log.Error(r.Context(), "failed to update job", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to update job"))
		return
	}

	if h.cache != nil {
		h.cache.InvalidateJobLists(r.Context())
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, jobResponse(job))
}

// DeleteJob handles DELETE /api/v1/jobs/{id}
func (h *JobHandlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	job, appErr := h.ownedJob(r, userCtx.UserID)
	if appErr != nil {
		apperrors.WriteError(w, requestID, appErr)
		return
	}

	if err := h.jobRepo.Delete(r.Context(), job.ID); err != nil {
		h.log.Error(r.Context(), "failed to delete job", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to delete job"))
		return
	}

	// Best effort: the posting is gone either way.
	if job.AttachmentKey.Valid && job.AttachmentKey.String != "" && h.uploader != nil {
		if err := h.uploader.Delete(r.Context(), job.AttachmentKey.String); err != nil {
			h.log.Warn(r.Context(), "failed to delete attachment", map[string]interface{}{
				"job_id": job.ID,
				"key":    job.AttachmentKey.String,
			})
		}
	}

	if h.cache != nil {
		h.cache.InvalidateJobLists(r.Context())
	}

	h.log.Info(r.Context(), "job deleted", map[string]interface{}{
		"job_id": job.ID,
	})

	apperrors.WriteJSON(w, requestID, http.StatusOK, map[string]string{
		"message": "job deleted",
	})
}

// newJob builds a job row for insertion. The INSERT carries the
// timestamps explicitly, so they are stamped here rather than left to a
// column default.
func newJob(req *CreateJobRequest, postedBy uuid.UUID, attachmentKey sql.NullString) *db.Job {
	now := time.Now()
	return &db.Job{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(req.Title),
		Company:       strings.TrimSpace(req.Company),
		Location:      strings.TrimSpace(req.Location),
		Category:      strings.TrimSpace(req.Category),
		Salary:        strings.TrimSpace(req.Salary),
		Description:   req.Description,
		AttachmentKey: attachmentKey,
		PostedBy:      postedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ownedJob fetches the job from the path and enforces ownership.
// A missing job reports 404 before any ownership check so that callers
// cannot probe which ids exist.
func (h *JobHandlers) ownedJob(r *http.Request, userID uuid.UUID) (*db.Job, *apperrors.AppError) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, apperrors.BadRequest("invalid job id")
	}

	job, err := h.jobRepo.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, db.ErrJobNotFound) {
			return nil, apperrors.JobNotFound()
		}
		h.log.Error(r.Context(), "failed to fetch job", err)
		return nil, apperrors.DatabaseError("failed to fetch job")
	}

	if job.PostedBy != userID {
		return nil, apperrors.Forbidden("you do not own this job posting")
	}

	return job, nil
}

func validateJobRequest(req *CreateJobRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(req.Company) == "" {
		return errors.New("company is required")
	}
	return nil
}
