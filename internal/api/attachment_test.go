package api

import (
	"testing"
)

func TestParseRange(t *testing.T) {
	const totalSize = 1000

	tests := []struct {
		name      string
		header    string
		wantStart int64
		wantEnd   int64
		wantNil   bool
		wantErr   bool
	}{
		{
			name:    "empty header means full content",
			header:  "",
			wantNil: true,
		},
		{
			name:      "explicit range",
			header:    "bytes=0-499",
			wantStart: 0,
			wantEnd:   499,
		},
		{
			name:      "open ended range",
			header:    "bytes=500-",
			wantStart: 500,
			wantEnd:   999,
		},
		{
			name:      "suffix range",
			header:    "bytes=-200",
			wantStart: 800,
			wantEnd:   999,
		},
		{
			name:      "suffix longer than file clamps to start",
			header:    "bytes=-5000",
			wantStart: 0,
			wantEnd:   999,
		},
		{
			name:      "end beyond size clamps to last byte",
			header:    "bytes=900-2000",
			wantStart: 900,
			wantEnd:   999,
		},
		{
			name:      "multiple ranges uses first",
			header:    "bytes=0-99,200-299",
			wantStart: 0,
			wantEnd:   99,
		},
		{
			name:    "wrong unit",
			header:  "items=0-10",
			wantErr: true,
		},
		{
			name:    "start past end of file",
			header:  "bytes=1000-",
			wantErr: true,
		},
		{
			name:    "start greater than end",
			header:  "bytes=500-100",
			wantErr: true,
		},
		{
			name:    "garbage",
			header:  "bytes=abc",
			wantErr: true,
		},
		{
			name:    "empty spec",
			header:  "bytes=-",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parseRange(tt.header, totalSize)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if spec != nil {
					t.Fatalf("expected nil spec, got %+v", spec)
				}
				return
			}
			if spec == nil {
				t.Fatal("expected spec, got nil")
			}
			if spec.start != tt.wantStart || spec.end != tt.wantEnd {
				t.Errorf("expected %d-%d, got %d-%d", tt.wantStart, tt.wantEnd, spec.start, spec.end)
			}
		})
	}
}

func TestAttachmentContentType(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		storageType string
		expected    string
	}{
		{
			name:        "storage type wins",
			key:         "attachments/a.bin",
			storageType: "application/pdf",
			expected:    "application/pdf",
		},
		{
			name:        "generic storage type falls back to extension",
			key:         "attachments/a.pdf",
			storageType: "application/octet-stream",
			expected:    "application/pdf",
		},
		{
			name:     "docx",
			key:      "attachments/posting.docx",
			expected: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		{
			name:     "jpeg",
			key:      "attachments/photo.JPG",
			expected: "image/jpeg",
		},
		{
			name:     "unknown extension",
			key:      "attachments/file.xyz",
			expected: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attachmentContentType(tt.key, tt.storageType)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
