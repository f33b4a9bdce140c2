package model

import (
	"time"
)

const (
	FileTypeDoctorImage  = "doctor_image"
	FileTypeArticleImage = "article_image"
)

const (
	FileOwnerDoctor  = "doctor"
	FileOwnerArticle = "article"
)

type File struct {
	ID           string    `db:"id"`
	OwnerType    string    `db:"owner_type"` // "doctor", "article"
	OwnerID      string    `db:"owner_id"`
	Type         string    `db:"type"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	Public       bool      `db:"public"`
	CreatedAt    time.Time `db:"created_at"`
}
