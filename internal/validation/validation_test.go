package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Ann Lee", false},
		{"trimmed", "  Bo  ", false},
		{"empty", "   ", true},
		{"too short", "A", true},
		{"too long", strings.Repeat("a", 81), true},
		{"max length", strings.Repeat("a", 80), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "green-tea", false},
		{"too short", "abc", true},
		{"minimum", "bloom1", false},
		{"too long", strings.Repeat("x", 73), true},
		{"common", "MyPassword!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePassword(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("ann@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	if err := ValidateEmail(""); err == nil {
		t.Fatal("empty email accepted")
	}
	if err := ValidateEmail("not-an-email"); err == nil {
		t.Fatal("malformed email accepted")
	}
}

// pngHeader is the 8-byte PNG signature followed by enough bytes to sniff.
var pngHeader = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(10 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	_, header, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	return header
}

func TestValidateImage(t *testing.T) {
	mime, err := ValidateImage(fileHeader(t, "portrait.png", pngHeader))
	if err != nil {
		t.Fatalf("png rejected: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}

	if _, err := ValidateImage(fileHeader(t, "portrait.jpg", pngHeader)); err == nil {
		t.Fatal("png with .jpg extension accepted")
	}

	if _, err := ValidateImage(fileHeader(t, "notes.png", []byte("just some text"))); err == nil {
		t.Fatal("text file accepted as image")
	}
}
