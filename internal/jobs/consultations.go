package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Completer closes consultations whose session has ended.
type Completer interface {
	CompleteFinished() (int, error)
}

// ConsultationSweeper periodically marks finished consultations as completed.
type ConsultationSweeper struct {
	completer Completer
	cron      *cron.Cron
	interval  time.Duration
}

func NewConsultationSweeper(completer Completer, interval time.Duration) *ConsultationSweeper {
	return &ConsultationSweeper{
		completer: completer,
		cron:      cron.New(),
		interval:  interval,
	}
}

func (s *ConsultationSweeper) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid sweep interval: %s", s.interval)
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.Sweep)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	slog.Info("consultation sweeper started", "interval", s.interval)

	return nil
}

// Stop waits for a running sweep to finish.
func (s *ConsultationSweeper) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("consultation sweeper stopped")
}

// Sweep runs a single pass.
func (s *ConsultationSweeper) Sweep() {
	completed, err := s.completer.CompleteFinished()
	if err != nil {
		slog.Error("failed to complete finished consultations", "error", err, "completed", completed)
		return
	}

	if completed > 0 {
		slog.Info("completed finished consultations", "count", completed)
	}
}
