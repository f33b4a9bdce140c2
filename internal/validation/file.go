package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize caps doctor and article image uploads.
const MaxImageSize = 5 << 20

// imageTypes maps sniffed content types to the extensions accepted for them.
var imageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
}

// ValidateImage checks size, sniffed content type and extension of an upload
// and returns the detected content type.
func ValidateImage(header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", fmt.Errorf("file too large: maximum size is %d MB", MaxImageSize>>20)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// The header's Content-Type is client supplied, so sniff the bytes instead.
	detected := http.DetectContentType(head[:n])
	extensions, ok := imageTypes[detected]
	if !ok {
		return "", fmt.Errorf("invalid file type (detected: %s)", detected)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range extensions {
		if ext == allowed {
			return detected, nil
		}
	}

	return "", fmt.Errorf("invalid file extension: %s", ext)
}
