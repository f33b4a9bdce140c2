package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/fitbloom/fitbloom/internal/service"
	"github.com/fitbloom/fitbloom/internal/validation"
)

// imageUpload reads and validates the "image" field of a multipart form.
// The returned close func must be called once the upload is stored.
func imageUpload(w http.ResponseWriter, r *http.Request) (service.Upload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxImageSize+(1<<20))

	err := r.ParseMultipartForm(validation.MaxImageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return service.Upload{}, nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return service.Upload{}, nil, false
	}

	closeFile := func(f multipart.File) func() {
		return func() {
			closeErr := f.Close()
			if closeErr != nil {
				slog.Error("failed to close file", "error", closeErr)
			}
		}
	}(file)

	contentType, err := validation.ValidateImage(header)
	if err != nil {
		closeFile()
		writeError(w, http.StatusBadRequest, err.Error())
		return service.Upload{}, nil, false
	}

	upload := service.Upload{
		Reader:       file,
		OriginalName: header.Filename,
		ContentType:  contentType,
		Size:         header.Size,
	}
	return upload, closeFile, true
}
