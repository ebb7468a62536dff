package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/careerhub/backend/internal/db"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/storage"
	"github.com/google/uuid"
)

type AttachmentHandlers struct {
	jobRepo JobStore
	storage *storage.Client
}

func NewAttachmentHandlers(jobRepo JobStore, storageClient *storage.Client) *AttachmentHandlers {
	return &AttachmentHandlers{
		jobRepo: jobRepo,
		storage: storageClient,
	}
}

// rangeSpec represents a parsed HTTP Range header.
type rangeSpec struct {
	start int64
	end   int64
}

var rangeRegex = regexp.MustCompile(`^(\d*)-(\d*)$`)

// parseRange parses an HTTP Range header value.
// Supports formats: "bytes=0-499", "bytes=500-", "bytes=-500"
func parseRange(rangeHeader string, totalSize int64) (*rangeSpec, error) {
	if rangeHeader == "" {
		return nil, nil
	}

	if !strings.HasPrefix(rangeHeader, "bytes=") {
		return nil, errors.New("invalid range unit")
	}

	spec := strings.TrimPrefix(rangeHeader, "bytes=")

	// Multiple ranges are not supported - just use the first one
	if strings.Contains(spec, ",") {
		spec = strings.Split(spec, ",")[0]
	}

	matches := rangeRegex.FindStringSubmatch(strings.TrimSpace(spec))
	if matches == nil {
		return nil, errors.New("invalid range format")
	}

	startStr, endStr := matches[1], matches[2]
	parsed := &rangeSpec{}

	switch {
	case startStr == "" && endStr == "":
		return nil, errors.New("invalid range: both start and end are empty")

	case startStr == "":
		// Suffix range: -500 means last 500 bytes
		suffix, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid suffix length: %w", err)
		}
		parsed.start = totalSize - suffix
		if parsed.start < 0 {
			parsed.start = 0
		}
		parsed.end = totalSize - 1

	case endStr == "":
		// Open-ended range: 500- means from byte 500 to end
		start, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid start position: %w", err)
		}
		parsed.start = start
		parsed.end = totalSize - 1

	default:
		start, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid start position: %w", err)
		}
		end, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid end position: %w", err)
		}
		parsed.start = start
		parsed.end = end
	}

	if parsed.start < 0 || parsed.start >= totalSize {
		return nil, errors.New("range start out of bounds")
	}
	if parsed.end >= totalSize {
		parsed.end = totalSize - 1
	}
	if parsed.start > parsed.end {
		return nil, errors.New("invalid range: start > end")
	}

	return parsed, nil
}

// attachmentContentType returns the MIME type based on file extension or
// storage metadata.
func attachmentContentType(storageKey string, storageContentType string) string {
	if storageContentType != "" && storageContentType != "application/octet-stream" {
		return storageContentType
	}

	key := strings.ToLower(storageKey)
	switch {
	case strings.HasSuffix(key, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(key, ".doc"):
		return "application/msword"
	case strings.HasSuffix(key, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(key, ".txt"):
		return "text/plain"
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// GetAttachment handles GET /api/v1/jobs/{id}/attachment
// Supports HTTP Range requests so large documents can be fetched in
// chunks by download managers and PDF viewers.
func (h *AttachmentHandlers) GetAttachment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := apperrors.GetRequestID(ctx)

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid job id"))
		return
	}

	job, err := h.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, db.ErrJobNotFound) {
			apperrors.WriteError(w, requestID, apperrors.JobNotFound())
			return
		}
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to fetch job"))
		return
	}

	if !job.AttachmentKey.Valid || job.AttachmentKey.String == "" {
		apperrors.WriteError(w, requestID, apperrors.NotFound("attachment"))
		return
	}

	storageKey := job.AttachmentKey.String

	objInfo, err := h.storage.StatObject(ctx, storageKey)
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.NotFound("attachment"))
		return
	}

	totalSize := objInfo.Size
	contentType := attachmentContentType(storageKey, objInfo.ContentType)

	spec, err := parseRange(r.Header.Get("Range"), totalSize)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", totalSize))
		apperrors.WriteError(w, requestID, apperrors.New(
			"INVALID_RANGE", "invalid range",
			apperrors.CategoryClient, http.StatusRequestedRangeNotSatisfiable))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "private, max-age=3600")

	if spec != nil {
		contentLength := spec.end - spec.start + 1
		w.Header().Set("Content-Length", strconv.FormatInt(contentLength, 10))
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", spec.start, spec.end, totalSize))
		w.WriteHeader(http.StatusPartialContent)

		reader, err := h.storage.GetObjectRange(ctx, storageKey, spec.start, spec.end)
		if err != nil {
			return // headers already sent
		}
		defer reader.Close()
		io.Copy(w, reader)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(totalSize, 10))
	w.WriteHeader(http.StatusOK)

	reader, _, err := h.storage.GetObject(ctx, storageKey)
	if err != nil {
		return // headers already sent
	}
	defer reader.Close()
	io.Copy(w, reader)
}
