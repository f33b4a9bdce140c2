package model

import (
	"time"
)

var ArticleCategories = []string{
	"Nutrition",
	"Recipes",
	"Lifestyle",
	"Wellness",
	"Fitness",
}

type Article struct {
	ID          string    `db:"id" json:"id"`
	DoctorID    string    `db:"doctor_id" json:"doctorId"`
	Title       string    `db:"title" json:"title"`
	Link        string    `db:"link" json:"link"`
	Image       string    `db:"image" json:"image"`
	Preview     string    `db:"preview" json:"preview"`
	Category    string    `db:"category" json:"category"`
	IsPublished bool      `db:"is_published" json:"isPublished"`
	Views       int       `db:"views" json:"views"`
	Likes       int       `db:"likes" json:"likes"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	// Computed fields (not in database)
	PreviewHTML string         `db:"-" json:"previewHtml"`
	Author      *ArticleAuthor `db:"-" json:"doctor,omitempty"`
}

type ArticleAuthor struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Title string `db:"title" json:"title"`
	Image string `db:"image" json:"image"`
}
