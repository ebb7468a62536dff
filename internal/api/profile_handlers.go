package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/careerhub/backend/internal/auth"
	"github.com/careerhub/backend/internal/db"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/logger"
	"github.com/careerhub/backend/internal/storage"
)

// maxProfileImageSize caps profile image uploads at 5 MiB.
const maxProfileImageSize = 5 << 20

type ProfileHandlers struct {
	profileRepo *db.ProfileRepository
	userRepo    *db.UserRepository
	uploader    *storage.Uploader
	log         *logger.Logger
}

func NewProfileHandlers(profileRepo *db.ProfileRepository, userRepo *db.UserRepository, uploader *storage.Uploader) *ProfileHandlers {
	return &ProfileHandlers{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		log:         logger.Default().WithComponent("profile"),
	}
}

type ProfileRequest struct {
	Phone        string `json:"phone"`
	Age          *int32 `json:"age"`
	Location     string `json:"location"`
	GroupLink    string `json:"groupLink"`
	Description  string `json:"description"`
	ProfileImage string `json:"profileImage"`
}

type ProfileResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Age          *int32 `json:"age,omitempty"`
	Location     string `json:"location,omitempty"`
	GroupLink    string `json:"group_link,omitempty"`
	Description  string `json:"description,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type ProfileImageResponse struct {
	Key string `json:"key"`
}

func nullableString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func (h *ProfileHandlers) profileResponse(profile *db.Profile, user *db.User) ProfileResponse {
	resp := ProfileResponse{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
	}
	if profile == nil {
		if user.ProfileImage.Valid {
			resp.ProfileImage = user.ProfileImage.String
		}
		return resp
	}
	if profile.Phone.Valid {
		resp.Phone = profile.Phone.String
	}
	if profile.Age.Valid {
		age := profile.Age.Int32
		resp.Age = &age
	}
	if profile.Location.Valid {
		resp.Location = profile.Location.String
	}
	if profile.GroupLink.Valid {
		resp.GroupLink = profile.GroupLink.String
	}
	if profile.Description.Valid {
		resp.Description = profile.Description.String
	}
	if profile.ProfileImage.Valid {
		resp.ProfileImage = profile.ProfileImage.String
	}
	return resp
}

// GetProfile handles GET /api/v1/profile
// A user with no saved profile still gets their account summary back.
func (h *ProfileHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		h.log.Error(r.Context(), "failed to fetch user", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to fetch profile"))
		return
	}

	profile, err := h.profileRepo.GetByUserID(r.Context(), userCtx.UserID)
	if err != nil && !errors.Is(err, db.ErrProfileNotFound) {
		h.log.Error(r.Context(), "failed to fetch profile", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to fetch profile"))
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, h.profileResponse(profile, user))
}

// UpdateProfile handles PUT /api/v1/profile
// Creates the profile on first write, replaces it afterwards. The
// profile always belongs to the authenticated user.
func (h *ProfileHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		apperrors.WriteError(w, requestID, apperrors.ValidationError("age is out of range"))
		return
	}

	profile := &db.Profile{
		UserID:       userCtx.UserID,
		Phone:        nullableString(req.Phone),
		Location:     nullableString(req.Location),
		GroupLink:    nullableString(req.GroupLink),
		Description:  nullableString(req.Description),
		ProfileImage: nullableString(req.ProfileImage),
	}
	if req.Age != nil {
		profile.Age = sql.NullInt32{Int32: *req.Age, Valid: true}
	}

	if err := h.profileRepo.Upsert(r.Context(), profile); err != nil {
		h.log.Error(r.Context(), "failed to save profile", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to save profile"))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		h.log.Error(r.Context(), "failed to fetch user", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to fetch profile"))
		return
	}

	h.log.Info(r.Context(), "profile updated", map[string]interface{}{
		"user_id": userCtx.UserID,
	})

	apperrors.WriteJSON(w, requestID, http.StatusOK, h.profileResponse(profile, user))
}

// UploadProfileImage handles POST /api/v1/profile/image
func (h *ProfileHandlers) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := auth.GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("user not authenticated"))
		return
	}

	if err := r.ParseMultipartForm(maxProfileImageSize); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid multipart form"))
		return
	}

	_, fileHeader, err := r.FormFile("image")
	if err != nil {
		apperrors.WriteError(w, requestID, apperrors.ValidationError("image file is required"))
		return
	}

	key, err := h.uploader.SaveUpload(r.Context(), fileHeader, storage.ProfileImagePrefix)
	if err != nil {
		h.log.Error(r.Context(), "profile image upload failed", err)
		apperrors.WriteError(w, requestID, apperrors.StorageError("failed to store image"))
		return
	}

	if err := h.userRepo.SetProfileImage(r.Context(), userCtx.UserID, key); err != nil {
		h.log.Error(r.Context(), "failed to record profile image", err)
		apperrors.WriteError(w, requestID, apperrors.DatabaseError("failed to save image"))
		return
	}

	h.log.Info(r.Context(), "profile image uploaded", map[string]interface{}{
		"user_id": userCtx.UserID,
		"key":     key,
	})

	apperrors.WriteJSON(w, requestID, http.StatusOK, ProfileImageResponse{Key: key})
}
