package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestChecker_BasicHealth(t *testing.T) {
	checker := NewChecker(&CheckerConfig{
		Version: "1.0.0",
		Timeout: 5 * time.Second,
	})

	response := checker.Check(context.Background())

	if response.Status != StatusHealthy {
		t.Errorf("expected status healthy, got %s", response.Status)
	}
	if response.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", response.Version)
	}
}

func TestChecker_DeepCheck_ComponentResults(t *testing.T) {
	checker := NewChecker(&CheckerConfig{
		CacheCheck: func(ctx context.Context) error {
			return nil
		},
		StorageCheck: func(ctx context.Context) error {
			return nil
		},
		Version: "1.0.0",
		Timeout: 5 * time.Second,
	})

	response := checker.DeepCheck(context.Background())

	if len(response.Components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(response.Components))
	}
	if response.Components["cache"].Status != StatusHealthy {
		t.Errorf("expected cache healthy, got %s", response.Components["cache"].Status)
	}
	if response.Components["storage"].Status != StatusHealthy {
		t.Errorf("expected storage healthy, got %s", response.Components["storage"].Status)
	}
	// No database configured: overall status is unhealthy
	if response.Status != StatusUnhealthy {
		t.Errorf("expected overall unhealthy without database, got %s", response.Status)
	}
}

func TestChecker_DeepCheck_StorageFailureIsUnhealthy(t *testing.T) {
	checker := NewChecker(&CheckerConfig{
		StorageCheck: func(ctx context.Context) error {
			return errors.New("storage connection failed")
		},
		Timeout: 5 * time.Second,
	})

	response := checker.DeepCheck(context.Background())

	if response.Components["storage"].Status != StatusUnhealthy {
		t.Errorf("expected storage unhealthy, got %s", response.Components["storage"].Status)
	}
	if response.Status != StatusUnhealthy {
		t.Errorf("expected overall unhealthy, got %s", response.Status)
	}
}

func TestChecker_CacheFailureOnlyDegrades(t *testing.T) {
	checker := NewChecker(&CheckerConfig{
		CacheCheck: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
		Timeout: time.Second,
	})

	result := checker.CheckCache(context.Background())

	if result.Status != StatusDegraded {
		t.Errorf("expected cache failure to degrade, got %s", result.Status)
	}
}

func TestHandler_Liveness(t *testing.T) {
	checker := NewChecker(&CheckerConfig{Version: "test"})
	handler := NewHandler(checker)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var response Response
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", response.Status)
	}
}

func TestHandler_DeepQueryParam(t *testing.T) {
	checker := NewChecker(&CheckerConfig{
		StorageCheck: func(ctx context.Context) error {
			return errors.New("down")
		},
	})
	handler := NewHandler(checker)

	req := httptest.NewRequest(http.MethodGet, "/health?deep=true", nil)
	rec := httptest.NewRecorder()

	handler.HealthHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for failing deep check, got %d", rec.Code)
	}
}
