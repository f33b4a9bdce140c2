package repository

import (
	"database/sql"
	"errors"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
)

type DoctorRepository interface {
	Create(doctor *model.Doctor) error
	ByID(id string) (*model.Doctor, error)
	ByEmail(email string) (*model.Doctor, error)
	FirstActive() (*model.Doctor, error)
	Doctors() ([]*model.Doctor, error)
	Update(doctor *model.Doctor) error
}

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(doctor *model.Doctor) error {
	query := `INSERT INTO doctors (id, name, email, password_hash, title, phone, bio, image, qualifications, certificates, experience, clients, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(query,
		doctor.ID,
		doctor.Name,
		doctor.Email,
		doctor.PasswordHash,
		doctor.Title,
		doctor.Phone,
		doctor.Bio,
		doctor.Image,
		doctor.Qualifications,
		doctor.Certificates,
		doctor.Experience,
		doctor.Clients,
		doctor.IsActive,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *doctorRepository) ByID(id string) (*model.Doctor, error) {
	doctor := &model.Doctor{}

	err := r.db.Get(doctor, `SELECT * FROM doctors WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}

	return doctor, err
}

func (r *doctorRepository) ByEmail(email string) (*model.Doctor, error) {
	doctor := &model.Doctor{}

	err := r.db.Get(doctor, `SELECT * FROM doctors WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}

	return doctor, err
}

// FirstActive returns the earliest registered active doctor.
func (r *doctorRepository) FirstActive() (*model.Doctor, error) {
	doctor := &model.Doctor{}
	query := `SELECT * FROM doctors WHERE is_active = $1 ORDER BY created_at ASC LIMIT 1`

	err := r.db.Get(doctor, query, true)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}

	return doctor, err
}

func (r *doctorRepository) Doctors() ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}

	err := r.db.Select(&doctors, `SELECT * FROM doctors ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}

	return doctors, nil
}

func (r *doctorRepository) Update(doctor *model.Doctor) error {
	doctor.UpdatedAt = utcNow()
	query := `UPDATE doctors
	          SET name = $1, email = $2, title = $3, phone = $4, bio = $5, image = $6, qualifications = $7,
	              certificates = $8, experience = $9, clients = $10, is_active = $11, updated_at = $12
	          WHERE id = $13`

	result, err := r.db.Exec(query,
		doctor.Name,
		doctor.Email,
		doctor.Title,
		doctor.Phone,
		doctor.Bio,
		doctor.Image,
		doctor.Qualifications,
		doctor.Certificates,
		doctor.Experience,
		doctor.Clients,
		doctor.IsActive,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrDoctorNotFound
	}

	return nil
}
