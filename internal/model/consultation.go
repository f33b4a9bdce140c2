package model

import (
	"time"
)

const (
	ConsultationStatusScheduled = "scheduled"
	ConsultationStatusCompleted = "completed"
	ConsultationStatusCancelled = "cancelled"
)

var ConsultationStatuses = []string{
	ConsultationStatusScheduled,
	ConsultationStatusCompleted,
	ConsultationStatusCancelled,
}

var SessionTypes = []string{
	"Initial Consultation (60 min)",
	"Follow-up Session (30 min)",
	"Meal Planning Session",
	"Progress Review",
}

type Consultation struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	SessionType string    `db:"session_type" json:"sessionType"`
	DateTime    time.Time `db:"date_time" json:"dateTime"`
	Duration    int       `db:"duration" json:"duration"` // minutes
	Notes       string    `db:"notes" json:"notes"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

func (c *Consultation) EndsAt() time.Time {
	return c.DateTime.Add(time.Duration(c.Duration) * time.Minute)
}

// Appointment is a consultation as seen from the doctor's calendar.
type Appointment struct {
	Consultation
	Patient Patient `db:"patient" json:"patient"`
}

// ActiveClient groups a patient's upcoming appointments.
type ActiveClient struct {
	Patient         Patient         `json:"patient"`
	Appointments    []*Consultation `json:"appointments"`
	NextAppointment *Consultation   `json:"nextAppointment"`
}
