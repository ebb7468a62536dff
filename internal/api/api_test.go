package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		param    string
		fallback int
		expected int
	}{
		{
			name:     "missing uses default",
			query:    "",
			param:    "limit",
			fallback: 20,
			expected: 20,
		},
		{
			name:     "valid value",
			query:    "?limit=50",
			param:    "limit",
			fallback: 20,
			expected: 50,
		},
		{
			name:     "invalid uses default",
			query:    "?limit=abc",
			param:    "limit",
			fallback: 20,
			expected: 20,
		},
		{
			name:     "negative uses default",
			query:    "?offset=-5",
			param:    "offset",
			fallback: 0,
			expected: 0,
		},
		{
			name:     "zero is accepted",
			query:    "?offset=0",
			param:    "offset",
			fallback: 10,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs"+tt.query, nil)
			got := parseIntParam(req, tt.param, tt.fallback)
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestValidateJobRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateJobRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: CreateJobRequest{
				Title:   "Backend Engineer",
				Company: "Acme",
			},
			wantErr: false,
		},
		{
			name: "missing title",
			req: CreateJobRequest{
				Company: "Acme",
			},
			wantErr: true,
		},
		{
			name: "whitespace title",
			req: CreateJobRequest{
				Title:   "   ",
				Company: "Acme",
			},
			wantErr: true,
		},
		{
			name: "missing company",
			req: CreateJobRequest{
				Title: "Backend Engineer",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJobRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateJobRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
