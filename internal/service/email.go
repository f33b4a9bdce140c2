package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
	location  *time.Location
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, location *time.Location, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
		location:  location,
	}
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	goalsURL := fmt.Sprintf("%s/goals", s.appURL)
	subject, body := welcomeEmailTemplate(name, goalsURL, s.appName)
	return s.send("welcome", email, subject, body)
}

func (s *EmailService) SendConsultationBookedEmail(email, name string, c *model.Consultation) error {
	when := c.DateTime.In(s.location).Format("Monday, January 2, 2006 at 15:04")
	subject, body := consultationBookedEmailTemplate(name, c.SessionType, when, c.Duration, s.appName)
	return s.send("consultation_booked", email, subject, body)
}

// send delivers a plain text email. In development it only logs.
func (s *EmailService) send(kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
