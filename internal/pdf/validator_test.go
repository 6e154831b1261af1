package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewValidator(t *testing.T) {
	validator := NewValidator(1024 * 1024)

	if validator == nil {
		t.Fatal("NewValidator returned nil")
	}
	if validator.maxFileSize != 1024*1024 {
		t.Errorf("expected maxFileSize %d but got %d", 1024*1024, validator.maxFileSize)
	}
}

func TestValidator_ValidateFile(t *testing.T) {
	// Create a temporary directory and files for testing
	tempDir, err := os.MkdirTemp("", "pdf_validator_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	emptyPDFPath := filepath.Join(tempDir, "empty.pdf")
	largePDFPath := filepath.Join(tempDir, "large.pdf")
	garbagePDFPath := filepath.Join(tempDir, "garbage.pdf")
	nonPDFPath := filepath.Join(tempDir, "document.txt")

	if err := os.WriteFile(emptyPDFPath, []byte{}, 0o644); err != nil {
		t.Fatalf("failed to create empty PDF: %v", err)
	}
	if err := os.WriteFile(largePDFPath, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("failed to create large PDF: %v", err)
	}
	if err := os.WriteFile(garbagePDFPath, []byte("this is not a PDF document"), 0o644); err != nil {
		t.Fatalf("failed to create garbage PDF: %v", err)
	}
	if err := os.WriteFile(nonPDFPath, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("failed to create non-PDF: %v", err)
	}

	validator := NewValidator(1024) // Small limit so large.pdf is rejected

	tests := []struct {
		name        string
		path        string
		expectValid bool
		messagePart string
	}{
		{
			name:        "empty path",
			path:        "",
			expectValid: false,
			messagePart: "path cannot be empty",
		},
		{
			name:        "non-existent file",
			path:        "/non/existent/file.pdf",
			expectValid: false,
			messagePart: "file does not exist",
		},
		{
			name:        "directory instead of file",
			path:        tempDir,
			expectValid: false,
			messagePart: "directory",
		},
		{
			name:        "non-PDF extension",
			path:        nonPDFPath,
			expectValid: false,
			messagePart: "not a PDF",
		},
		{
			name:        "empty file",
			path:        emptyPDFPath,
			expectValid: false,
			messagePart: "file is empty",
		},
		{
			name:        "file too large",
			path:        largePDFPath,
			expectValid: false,
			messagePart: "file too large",
		},
		{
			name:        "not a PDF inside",
			path:        garbagePDFPath,
			expectValid: false,
			messagePart: "invalid PDF file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result == nil {
				t.Fatal("result should not be nil")
			}

			if result.Path != tt.path {
				t.Errorf("expected Path=%s but got %s", tt.path, result.Path)
			}
			if result.Valid != tt.expectValid {
				t.Errorf("expected Valid=%v but got %v", tt.expectValid, result.Valid)
			}
			if !tt.expectValid {
				if result.Message == "" {
					t.Error("expected validation message for invalid file")
				} else if !strings.Contains(result.Message, tt.messagePart) {
					t.Errorf("expected message containing %q but got %q", tt.messagePart, result.Message)
				}
			}
		})
	}
}

func TestValidator_IsValidPDF(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "pdf_validator_quick_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	garbagePDFPath := filepath.Join(tempDir, "garbage.pdf")
	if err := os.WriteFile(garbagePDFPath, []byte("not a PDF"), 0o644); err != nil {
		t.Fatalf("failed to create garbage PDF: %v", err)
	}

	validator := NewValidator(1024 * 1024)

	if validator.IsValidPDF(garbagePDFPath) {
		t.Error("expected garbage file to be invalid")
	}
	if validator.IsValidPDF("/non/existent/file.pdf") {
		t.Error("expected missing file to be invalid")
	}
}
