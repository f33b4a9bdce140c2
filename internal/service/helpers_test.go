package service

import (
	"errors"
	"testing"
	"time"

	"github.com/fitbloom/fitbloom/internal/db/dbtest"
	"github.com/fitbloom/fitbloom/internal/markdown"
	"github.com/fitbloom/fitbloom/internal/model"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const testSecret = "test-secret"

type testServices struct {
	db            *sqlx.DB
	users         repository.UserRepository
	auth          *AuthService
	goals         *GoalService
	consultations *ConsultationService
	doctors       *DoctorService
	articles      *ArticleService
	files         *FileService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	conn := dbtest.New(t)
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:4000/uploads")
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepository(conn)
	email := NewEmailService("", "FitBloom <hello@fitbloom.test>", "http://localhost:4000", "FitBloom", time.UTC, true)
	auth := NewAuthService(users, email, testSecret, 7*24*time.Hour, 30*24*time.Hour)
	files := NewFileService(repository.NewFileRepository(conn), store)

	return &testServices{
		db:            conn,
		users:         users,
		auth:          auth,
		goals:         NewGoalService(repository.NewGoalRepository(conn)),
		consultations: NewConsultationService(repository.NewConsultationRepository(conn), users, email, time.UTC),
		doctors:       NewDoctorService(repository.NewDoctorRepository(conn), auth, files),
		articles:      NewArticleService(repository.NewArticleRepository(conn), markdown.NewParser(), files),
		files:         files,
	}
}

func (s *testServices) createUser(t *testing.T, email string) *model.User {
	t.Helper()

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func ptr[T any](v T) *T {
	return &v
}

func wantValidation(t *testing.T, err error, message string) {
	t.Helper()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if message != "" && verr.Message != message {
		t.Fatalf("message = %q, want %q", verr.Message, message)
	}
}
