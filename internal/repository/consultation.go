package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")
)

const appointmentColumns = `c.*, u.id AS "patient.id", u.name AS "patient.name", u.email AS "patient.email"`

type ConsultationRepository interface {
	Create(consultation *model.Consultation) error
	ByID(id string) (*model.Consultation, error)
	Consultations(userID string) ([]*model.Consultation, error)
	Delete(userID, id string) error
	Appointments() ([]*model.Appointment, error)
	Upcoming(now time.Time) ([]*model.Appointment, error)
	UpdateStatus(id, status string, now time.Time) error
	StartedScheduled(now time.Time) ([]*model.Consultation, error)
	MarkCompleted(id string, now time.Time) (bool, error)
}

type consultationRepository struct {
	db *sqlx.DB
}

func NewConsultationRepository(db *sqlx.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

func (r *consultationRepository) Create(c *model.Consultation) error {
	query := `INSERT INTO consultations (id, user_id, session_type, date_time, duration, notes, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		c.ID,
		c.UserID,
		c.SessionType,
		c.DateTime,
		c.Duration,
		c.Notes,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)

	return err
}

func (r *consultationRepository) ByID(id string) (*model.Consultation, error) {
	c := &model.Consultation{}

	err := r.db.Get(c, `SELECT * FROM consultations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrConsultationNotFound
	}

	return c, err
}

func (r *consultationRepository) Consultations(userID string) ([]*model.Consultation, error) {
	consultations := []*model.Consultation{}

	err := r.db.Select(&consultations, `SELECT * FROM consultations WHERE user_id = $1 ORDER BY date_time ASC`, userID)
	if err != nil {
		return nil, err
	}

	return consultations, nil
}

func (r *consultationRepository) Delete(userID, id string) error {
	result, err := r.db.Exec(`DELETE FROM consultations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrConsultationNotFound
	}

	return nil
}

// Appointments lists every consultation with its patient, newest first.
func (r *consultationRepository) Appointments() ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	query := `SELECT ` + appointmentColumns + `
	          FROM consultations c
	          JOIN users u ON u.id = c.user_id
	          ORDER BY c.date_time DESC`

	err := r.db.Select(&appointments, query)
	if err != nil {
		return nil, err
	}

	return appointments, nil
}

// Upcoming lists future consultations that were not cancelled, soonest first.
func (r *consultationRepository) Upcoming(now time.Time) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	query := `SELECT ` + appointmentColumns + `
	          FROM consultations c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.date_time >= $1 AND c.status <> $2
	          ORDER BY c.date_time ASC`

	err := r.db.Select(&appointments, query, now, model.ConsultationStatusCancelled)
	if err != nil {
		return nil, err
	}

	return appointments, nil
}

func (r *consultationRepository) UpdateStatus(id, status string, now time.Time) error {
	result, err := r.db.Exec(`UPDATE consultations SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrConsultationNotFound
	}

	return nil
}

// StartedScheduled returns scheduled consultations that began before now.
func (r *consultationRepository) StartedScheduled(now time.Time) ([]*model.Consultation, error) {
	consultations := []*model.Consultation{}
	query := `SELECT * FROM consultations WHERE status = $1 AND date_time < $2 ORDER BY date_time ASC`

	err := r.db.Select(&consultations, query, model.ConsultationStatusScheduled, now)
	if err != nil {
		return nil, err
	}

	return consultations, nil
}

// MarkCompleted flips a still-scheduled consultation to completed. It reports
// false when the consultation changed status in the meantime.
func (r *consultationRepository) MarkCompleted(id string, now time.Time) (bool, error) {
	query := `UPDATE consultations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.db.Exec(query, model.ConsultationStatusCompleted, now, id, model.ConsultationStatusScheduled)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}
