package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/careerhub/backend/internal/errors"
)

func TestValidateSignupRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *SignupRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: &SignupRequest{
				Name:     "Alice",
				Email:    "alice@x.com",
				Password: "pw123",
			},
			wantErr: false,
		},
		{
			name: "mixed case email accepted",
			req: &SignupRequest{
				Name:     "Alice",
				Email:    " Alice@X.Com ",
				Password: "pw123",
			},
			wantErr: false,
		},
		{
			name: "empty name",
			req: &SignupRequest{
				Email:    "alice@x.com",
				Password: "pw123",
			},
			wantErr: true,
		},
		{
			name: "empty email",
			req: &SignupRequest{
				Name:     "Alice",
				Password: "pw123",
			},
			wantErr: true,
		},
		{
			name: "invalid email format",
			req: &SignupRequest{
				Name:     "Alice",
				Email:    "notanemail",
				Password: "pw123",
			},
			wantErr: true,
		},
		{
			name: "empty password",
			req: &SignupRequest{
				Name:  "Alice",
				Email: "alice@x.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSignupRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateSignupRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginHandler_MissingFields(t *testing.T) {
	h := NewHandlers(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"email":"alice@x.com"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apperrors.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apperrors.CodeValidationError {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidationError, resp.Error.Code)
	}
}

func TestRefreshHandler_MissingToken(t *testing.T) {
	h := NewHandlers(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.Refresh(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing refresh token, got %d", w.Code)
	}
}

func TestRefreshHandler_GarbageToken(t *testing.T) {
	h := NewHandlers(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", strings.NewReader(`{"token":"garbage"}`))
	w := httptest.NewRecorder()

	h.Refresh(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for invalid refresh token, got %d", w.Code)
	}
}

func TestLogoutHandler_Unauthenticated(t *testing.T) {
	h := NewHandlers(testService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity, got %d", w.Code)
	}
}
