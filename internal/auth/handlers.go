package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/careerhub/backend/internal/db"
	apperrors "github.com/careerhub/backend/internal/errors"
	"github.com/careerhub/backend/internal/logger"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type SignupResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Token string `json:"token"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Handlers struct {
	authService *Service
	log         *logger.Logger
}

func NewHandlers(authService *Service) *Handlers {
	return &Handlers{
		authService: authService,
		log:         logger.Default().WithComponent("auth"),
	}
}

// Signup handles POST /api/v1/users/signup
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	if err := validateSignupRequest(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.ValidationError(err.Error()))
		return
	}

	info, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password, req.ProfileImage)
	if err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			apperrors.WriteError(w, requestID, apperrors.DuplicateEmail())
			return
		}
		h.log.Error(r.Context(), "signup failed", err)
		apperrors.WriteError(w, requestID, apperrors.InternalError("failed to register user"))
		return
	}

	h.log.Info(r.Context(), "user registered", map[string]interface{}{
		"user_id": info.UserID,
	})

	apperrors.WriteJSON(w, requestID, http.StatusCreated, SignupResponse{
		UserID: info.UserID,
		Name:   info.Name,
		Email:  info.Email,
	})
}

// Login handles POST /api/v1/users/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.Email == "" || req.Password == "" {
		apperrors.WriteError(w, requestID, apperrors.ValidationError("email and password are required"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			apperrors.WriteError(w, requestID, apperrors.UserNotFound())
		case errors.Is(err, ErrIncorrectPassword):
			apperrors.WriteError(w, requestID, apperrors.IncorrectPassword())
		default:
			h.log.Error(r.Context(), "login failed", err)
			apperrors.WriteError(w, requestID, apperrors.InternalError("login failed"))
		}
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, result)
}

// Refresh handles POST /api/v1/users/refresh-token.
// A missing token is 401 (nothing presented); a token that fails
// verification or does not match the stored value is 403.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.Token == "" {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("refresh token required"))
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrRefreshMismatch):
			h.log.Warn(r.Context(), "refresh token rejected", map[string]interface{}{
				"reason": err.Error(),
			})
			apperrors.WriteError(w, requestID, apperrors.InvalidRefreshToken())
		default:
			h.log.Error(r.Context(), "token refresh failed", err)
			apperrors.WriteError(w, requestID, apperrors.InternalError("token refresh failed"))
		}
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// Logout handles POST /api/v1/users/logout. The identity comes from the
// verified token, not the request body.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("not authenticated"))
		return
	}

	if err := h.authService.Logout(r.Context(), userCtx.UserID); err != nil {
		h.log.Error(r.Context(), "logout failed", err)
		apperrors.WriteError(w, requestID, apperrors.InternalError("logout failed"))
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// ChangePassword handles POST /api/v1/users/change-password
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("not authenticated"))
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteError(w, requestID, apperrors.BadRequest("invalid request body"))
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		apperrors.WriteError(w, requestID, apperrors.ValidationError("current and new password are required"))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), userCtx.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword):
			apperrors.WriteError(w, requestID, apperrors.IncorrectPassword())
		default:
			h.log.Error(r.Context(), "password change failed", err)
			apperrors.WriteError(w, requestID, apperrors.InternalError("password change failed"))
		}
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, map[string]string{
		"message": "password updated",
	})
}

// Me handles GET /api/v1/users/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	requestID := apperrors.GetRequestID(r.Context())

	userCtx := GetUserFromContext(r.Context())
	if userCtx == nil {
		apperrors.WriteError(w, requestID, apperrors.Unauthorized("not authenticated"))
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userCtx.UserID)
	if err != nil {
		h.log.Error(r.Context(), "failed to load user", err)
		apperrors.WriteError(w, requestID, apperrors.InternalError("failed to load user"))
		return
	}

	apperrors.WriteJSON(w, requestID, http.StatusOK, userInfo(user))
}

func validateSignupRequest(req *SignupRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(db.NormalizeEmail(req.Email)) {
		return errors.New("invalid email format")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	return nil
}
