package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/storage"
	"github.com/google/uuid"
)

// Upload describes a validated file ready to be stored.
type Upload struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string
	Size         int64
}

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// Replace stores upload as the owner's file of the given type and removes the
// files it supersedes. Validation is the caller's job.
func (s *FileService) Replace(ownerType, ownerID, fileType string, upload Upload) (*model.File, error) {
	ext := strings.ToLower(filepath.Ext(upload.OriginalName))
	filename := uuid.New().String() + ext
	storagePath := path.Join("public", fileType+"s", filename)

	err := s.storage.Save(storagePath, upload.Reader, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	file := &model.File{
		ID:           uuid.New().String(),
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		Type:         fileType,
		Filename:     filename,
		OriginalName: upload.OriginalName,
		MimeType:     upload.ContentType,
		Size:         upload.Size,
		StoragePath:  storagePath,
		Public:       true,
		CreatedAt:    time.Now().UTC(),
	}

	superseded, err := s.fileRepo.Replace(file)
	if err != nil {
		s.removeObject(storagePath)
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	for _, old := range superseded {
		s.removeObject(old.StoragePath)
	}

	return file, nil
}

// removeObject deletes a stored object. Failures only leave an orphan behind.
func (s *FileService) removeObject(storagePath string) {
	err := s.storage.Delete(storagePath)
	if err != nil {
		slog.Error("failed to delete file from storage", "error", err, "path", storagePath)
	}
}

func (s *FileService) URL(file *model.File) string {
	if file == nil {
		return ""
	}
	return s.storage.URL(file.StoragePath)
}

// Delete removes a file from storage and database. Storage removal is best effort.
func (s *FileService) Delete(fileID string) error {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	err = s.fileRepo.Delete(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.removeObject(file.StoragePath)

	return nil
}

// DeleteOwnerFiles removes every file attached to an owner.
func (s *FileService) DeleteOwnerFiles(ownerType, ownerID string) error {
	files, err := s.fileRepo.Files(ownerType, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	for _, file := range files {
		err = s.Delete(file.ID)
		if err != nil {
			return err
		}
	}
	return nil
}
