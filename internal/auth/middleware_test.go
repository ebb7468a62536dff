package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func protectedEcho(t *testing.T, sawUser **UserContext) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawUser = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_MissingHeader(t *testing.T) {
	s := testService()
	var sawUser *UserContext

	handler := Middleware(s)(protectedEcho(t, &sawUser))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if sawUser != nil {
		t.Error("handler should not run without a token")
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	s := testService()
	var sawUser *UserContext

	handler := Middleware(s)(protectedEcho(t, &sawUser))

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bearer garbage", "Bearer garbage"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawUser = nil
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
			if sawUser != nil {
				t.Error("handler should not run with a bad token")
			}
		})
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	s := testService()
	user := testUser()
	var sawUser *UserContext

	token, err := s.signToken(user, -1*time.Minute, s.accessSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	handler := Middleware(s)(protectedEcho(t, &sawUser))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", w.Code)
	}
	if sawUser != nil {
		t.Error("handler should not run with an expired token")
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	s := testService()
	user := testUser()
	var sawUser *UserContext

	token, err := s.issueAccessToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	handler := Middleware(s)(protectedEcho(t, &sawUser))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if sawUser == nil {
		t.Fatal("handler should see the resolved identity")
	}
	if sawUser.UserID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, sawUser.UserID)
	}
	if sawUser.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, sawUser.Email)
	}
}

func TestGetUserFromContext_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user := GetUserFromContext(req.Context()); user != nil {
		t.Errorf("expected nil user for plain context, got %+v", user)
	}
}
