package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/google/uuid"
)

const maxConsultationNotes = 1000

// BookingInput is a consultation request. Date and Time are wall-clock values
// in the practice's time zone.
type BookingInput struct {
	SessionType string `json:"sessionType"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	Notes       string `json:"notes"`
}

type ConsultationService struct {
	repo           repository.ConsultationRepository
	userRepository repository.UserRepository
	emailService   *EmailService
	location       *time.Location
	now            func() time.Time
}

func NewConsultationService(
	repo repository.ConsultationRepository,
	userRepository repository.UserRepository,
	emailService *EmailService,
	location *time.Location,
) *ConsultationService {
	return &ConsultationService{
		repo:           repo,
		userRepository: userRepository,
		emailService:   emailService,
		location:       location,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *ConsultationService) Consultations(userID string) ([]*model.Consultation, error) {
	consultations, err := s.repo.Consultations(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (s *ConsultationService) Book(userID string, input BookingInput) (*model.Consultation, error) {
	sessionType := strings.TrimSpace(input.SessionType)
	if !slices.Contains(model.SessionTypes, sessionType) {
		return nil, invalid("sessionType", "Session type must be one of: %s", strings.Join(model.SessionTypes, "; "))
	}

	date := strings.TrimSpace(input.Date)
	clock := strings.TrimSpace(input.Time)
	if date == "" || clock == "" {
		return nil, invalid("date", "Date and time are required")
	}

	startsAt, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, s.location)
	if err != nil {
		return nil, invalid("date", "Date must be YYYY-MM-DD and time HH:MM")
	}

	now := s.now()
	if !startsAt.After(now) {
		return nil, invalid("date", "Consultation must be in the future")
	}

	notes := strings.TrimSpace(input.Notes)
	if utf8.RuneCountInString(notes) > maxConsultationNotes {
		return nil, invalid("notes", "Notes must be at most %d characters", maxConsultationNotes)
	}

	consultation := &model.Consultation{
		ID:          uuid.New().String(),
		UserID:      userID,
		SessionType: sessionType,
		DateTime:    startsAt.UTC(),
		Duration:    SessionDuration(sessionType),
		Notes:       notes,
		Status:      model.ConsultationStatusScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(consultation)
	if err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	s.notifyBooked(consultation)

	return consultation, nil
}

func (s *ConsultationService) notifyBooked(c *model.Consultation) {
	user, err := s.userRepository.ByID(c.UserID)
	if err != nil {
		slog.Error("failed to load user for booking email", "error", err, "user_id", c.UserID)
		return
	}

	err = s.emailService.SendConsultationBookedEmail(user.Email, user.Name, c)
	if err != nil {
		slog.Error("failed to send booking email", "error", err, "user_id", c.UserID, "consultation_id", c.ID)
	}
}

// Cancel removes one of the user's consultations and returns its id.
func (s *ConsultationService) Cancel(userID, id string) (string, error) {
	err := s.repo.Delete(userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrConsultationNotFound) {
			return "", err
		}
		return "", fmt.Errorf("failed to cancel consultation: %w", err)
	}
	return id, nil
}

func (s *ConsultationService) Appointments() ([]*model.Appointment, error) {
	appointments, err := s.repo.Appointments()
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *ConsultationService) UpdateStatus(id, status string) (*model.Consultation, error) {
	status = strings.TrimSpace(strings.ToLower(status))
	if !slices.Contains(model.ConsultationStatuses, status) {
		return nil, invalid("status", "Status must be one of %s", strings.Join(model.ConsultationStatuses, ", "))
	}

	err := s.repo.UpdateStatus(id, status, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrConsultationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update consultation: %w", err)
	}

	return s.repo.ByID(id)
}

// ActiveClients groups upcoming, non-cancelled appointments by patient. Patients
// are ordered by their next appointment.
func (s *ConsultationService) ActiveClients() ([]*model.ActiveClient, error) {
	upcoming, err := s.repo.Upcoming(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}

	clients := []*model.ActiveClient{}
	byPatient := make(map[string]*model.ActiveClient)
	for _, a := range upcoming {
		client, ok := byPatient[a.Patient.ID]
		if !ok {
			client = &model.ActiveClient{Patient: a.Patient}
			byPatient[a.Patient.ID] = client
			clients = append(clients, client)
		}
		consultation := a.Consultation
		client.Appointments = append(client.Appointments, &consultation)
	}

	for _, client := range clients {
		client.NextAppointment = client.Appointments[0]
	}

	return clients, nil
}

// CompleteFinished marks scheduled consultations whose session has ended as
// completed and returns how many changed.
func (s *ConsultationService) CompleteFinished() (int, error) {
	now := s.now()

	started, err := s.repo.StartedScheduled(now)
	if err != nil {
		return 0, fmt.Errorf("failed to list started consultations: %w", err)
	}

	completed := 0
	for _, c := range started {
		if c.EndsAt().After(now) {
			continue
		}
		changed, err := s.repo.MarkCompleted(c.ID, now)
		if err != nil {
			return completed, fmt.Errorf("failed to complete consultation %s: %w", c.ID, err)
		}
		if changed {
			completed++
		}
	}

	return completed, nil
}

// SessionDuration derives a session's length in minutes from its type.
func SessionDuration(sessionType string) int {
	switch {
	case strings.Contains(sessionType, "60"):
		return 60
	case strings.Contains(sessionType, "30"):
		return 30
	default:
		return 45
	}
}
