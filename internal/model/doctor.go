package model

import (
	"time"
)

type Doctor struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Title          string    `db:"title" json:"title"`
	Phone          string    `db:"phone" json:"phone"`
	Bio            string    `db:"bio" json:"bio"`
	Image          string    `db:"image" json:"image"`
	Qualifications string    `db:"qualifications" json:"qualifications"`
	Certificates   string    `db:"certificates" json:"certificates"`
	Experience     int       `db:"experience" json:"experience"`
	Clients        int       `db:"clients" json:"clients"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// DoctorProfile is what anonymous visitors see of a doctor.
type DoctorProfile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	Phone          string `json:"phone"`
	Bio            string `json:"bio"`
	Image          string `json:"image"`
	Qualifications string `json:"qualifications"`
	Certificates   string `json:"certificates"`
	Experience     int    `json:"experience"`
	Clients        int    `json:"clients"`
}

func (d *Doctor) Profile() *DoctorProfile {
	return &DoctorProfile{
		ID:             d.ID,
		Name:           d.Name,
		Title:          d.Title,
		Phone:          d.Phone,
		Bio:            d.Bio,
		Image:          d.Image,
		Qualifications: d.Qualifications,
		Certificates:   d.Certificates,
		Experience:     d.Experience,
		Clients:        d.Clients,
	}
}
