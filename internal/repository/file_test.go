package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fitbloom/fitbloom/internal/db/dbtest"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
)

func newFile(id, ownerID, fileType string) *model.File {
	return &model.File{
		ID:           id,
		OwnerType:    model.FileOwnerDoctor,
		OwnerID:      ownerID,
		Type:         fileType,
		Filename:     id + ".png",
		OriginalName: "portrait.png",
		MimeType:     "image/png",
		Size:         42,
		StoragePath:  "public/" + id + ".png",
		Public:       true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestReplaceSupersedesSameType(t *testing.T) {
	repo := repository.NewFileRepository(dbtest.New(t))

	superseded, err := repo.Replace(newFile("f1", "doc-1", model.FileTypeDoctorImage))
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if len(superseded) != 0 {
		t.Fatalf("superseded = %d, want 0", len(superseded))
	}

	// Other owners and types are left alone.
	if _, err := repo.Replace(newFile("f2", "doc-2", model.FileTypeDoctorImage)); err != nil {
		t.Fatalf("other owner: %v", err)
	}

	superseded, err = repo.Replace(newFile("f3", "doc-1", model.FileTypeDoctorImage))
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if len(superseded) != 1 || superseded[0].ID != "f1" {
		t.Fatalf("superseded = %+v, want f1", superseded)
	}

	files, err := repo.Files(model.FileOwnerDoctor, "doc-1")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 1 || files[0].ID != "f3" {
		t.Fatalf("files = %+v, want only f3", files)
	}

	if _, err := repo.ByID("f2"); err != nil {
		t.Errorf("other owner's file: %v", err)
	}
}

func TestFileDeleteNotFound(t *testing.T) {
	repo := repository.NewFileRepository(dbtest.New(t))

	if _, err := repo.ByID("missing"); !errors.Is(err, repository.ErrFileNotFound) {
		t.Errorf("ByID err = %v, want ErrFileNotFound", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, repository.ErrFileNotFound) {
		t.Errorf("Delete err = %v, want ErrFileNotFound", err)
	}
}
