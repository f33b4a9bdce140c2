package repository

import (
	"database/sql"
	"errors"

	"github.com/fitbloom/fitbloom/internal/db"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// FileRepository tracks uploaded images. Each owner holds at most one file per type.
type FileRepository interface {
	Replace(file *model.File) ([]*model.File, error)
	ByID(id string) (*model.File, error)
	Files(ownerType, ownerID string) ([]*model.File, error)
	Delete(id string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

// Replace records file and drops the rows it supersedes in one transaction.
// The superseded rows are returned so their stored objects can be removed.
func (r *fileRepository) Replace(file *model.File) ([]*model.File, error) {
	superseded := []*model.File{}

	err := db.Tx(r.db, func(tx *sqlx.Tx) error {
		err := tx.Select(&superseded,
			`SELECT * FROM files WHERE owner_type = $1 AND owner_id = $2 AND type = $3`,
			file.OwnerType, file.OwnerID, file.Type)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`DELETE FROM files WHERE owner_type = $1 AND owner_id = $2 AND type = $3`,
			file.OwnerType, file.OwnerID, file.Type)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`INSERT INTO files (id, owner_type, owner_id, type, filename, original_name, mime_type, size, storage_path, public, created_at)
		                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			file.ID, file.OwnerType, file.OwnerID, file.Type, file.Filename, file.OriginalName,
			file.MimeType, file.Size, file.StoragePath, file.Public, file.CreatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}

	return superseded, nil
}

func (r *fileRepository) ByID(id string) (*model.File, error) {
	file := &model.File{}

	err := r.db.Get(file, `SELECT * FROM files WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *fileRepository) Files(ownerType, ownerID string) ([]*model.File, error) {
	files := []*model.File{}

	err := r.db.Select(&files, `SELECT * FROM files WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at ASC`, ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFileNotFound
	}
	return nil
}
