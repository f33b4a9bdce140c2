package app

import (
	"fmt"
	"log/slog"

	"github.com/fitbloom/fitbloom/internal/config"
	"github.com/fitbloom/fitbloom/internal/db"
	"github.com/fitbloom/fitbloom/internal/markdown"
	"github.com/fitbloom/fitbloom/internal/repository"
	"github.com/fitbloom/fitbloom/internal/service"
	"github.com/fitbloom/fitbloom/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Storage             storage.Storage
	AuthService         *service.AuthService
	UserService         *service.UserService
	EmailService        *service.EmailService
	FileService         *service.FileService
	GoalService         *service.GoalService
	ConsultationService *service.ConsultationService
	DoctorService       *service.DoctorService
	ArticleService      *service.ArticleService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.DBMigrateOnStart {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	} else {
		slog.Info("skipping migrations on start")
	}

	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, fileStorage), nil
}

// Wire builds the services on top of an open database and storage backend.
func Wire(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	location := cfg.Location()

	// Repositories
	userRepository := repository.NewUserRepository(database)
	doctorRepository := repository.NewDoctorRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	consultationRepository := repository.NewConsultationRepository(database)
	articleRepository := repository.NewArticleRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		location,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, fileStorage)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.DoctorJWTExpiry,
	)
	userService := service.NewUserService(userRepository)
	goalService := service.NewGoalService(goalRepository)
	consultationService := service.NewConsultationService(consultationRepository, userRepository, emailService, location)
	doctorService := service.NewDoctorService(doctorRepository, authService, fileService)
	articleService := service.NewArticleService(articleRepository, markdown.NewParser(), fileService)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Storage:             fileStorage,
		AuthService:         authService,
		UserService:         userService,
		EmailService:        emailService,
		FileService:         fileService,
		GoalService:         goalService,
		ConsultationService: consultationService,
		DoctorService:       doctorService,
		ArticleService:      articleService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
