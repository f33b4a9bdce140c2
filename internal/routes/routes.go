package routes

import (
	"net/http"

	"github.com/fitbloom/fitbloom/internal/app"
	"github.com/fitbloom/fitbloom/internal/handler"
	"github.com/fitbloom/fitbloom/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	goal := handler.NewGoalHandler(app.GoalService)
	consultation := handler.NewConsultationHandler(app.ConsultationService)
	doctor := handler.NewDoctorHandler(app.DoctorService, app.ConsultationService)
	article := handler.NewArticleHandler(app.ArticleService)
	admin := handler.NewAdminHandler(app.DoctorService, app.ArticleService)

	requireUser := middleware.RequireUser(app.AuthService)
	requireDoctor := middleware.RequireDoctor(app.AuthService)
	requireAdmin := middleware.RequireAdmin(app.Cfg.AdminToken)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/health", health.Health)

	// Uploaded images (local storage only; S3 serves its own URLs)
	if app.Cfg.S3Bucket == "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.Cfg.UploadDir))))
	}

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/doctor/register", rateLimiter(doctor.Register))
	mux.HandleFunc("POST /api/doctor/login", rateLimiter(doctor.Login))

	// Practice profile and articles
	mux.HandleFunc("GET /api/doctor/public", doctor.PublicProfile)
	mux.HandleFunc("GET /api/public/articles", article.Published)
	mux.HandleFunc("GET /api/public/articles/{id}", article.View)
	mux.HandleFunc("POST /api/public/articles/{id}/like", article.Like)

	// ============================================================================
	// USER ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/auth/user-data", requireUser(auth.UserData))
	mux.HandleFunc("PATCH /api/auth/me", requireUser(auth.UpdateMe))

	// Goals
	mux.HandleFunc("GET /api/goals", requireUser(goal.List))
	mux.HandleFunc("POST /api/goals", requireUser(goal.Create))
	mux.HandleFunc("PATCH /api/goals/{id}", requireUser(goal.Patch))
	mux.HandleFunc("POST /api/goals/{id}/logs", requireUser(goal.LogProgress))
	mux.HandleFunc("DELETE /api/goals/{id}", requireUser(goal.Delete))

	// Consultations
	mux.HandleFunc("GET /api/consultations", requireUser(consultation.List))
	mux.HandleFunc("POST /api/consultations", requireUser(consultation.Book))
	mux.HandleFunc("DELETE /api/consultations/{id}", requireUser(consultation.Cancel))

	// ============================================================================
	// DOCTOR ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/doctor/me", requireDoctor(doctor.Me))
	mux.HandleFunc("PATCH /api/doctor/me", requireDoctor(doctor.UpdateMe))
	mux.HandleFunc("POST /api/doctor/me/image", requireDoctor(doctor.UploadImage))

	mux.HandleFunc("GET /api/doctor/appointments", requireDoctor(doctor.Appointments))
	mux.HandleFunc("PATCH /api/doctor/appointments/{id}", requireDoctor(doctor.UpdateAppointment))
	mux.HandleFunc("GET /api/doctor/active-clients", requireDoctor(doctor.ActiveClients))

	mux.HandleFunc("GET /api/doctor/articles", requireDoctor(article.List))
	mux.HandleFunc("POST /api/doctor/articles", requireDoctor(article.Create))
	mux.HandleFunc("POST /api/doctor/articles/import", requireDoctor(article.Import))
	mux.HandleFunc("GET /api/doctor/articles/{id}", requireDoctor(article.Get))
	mux.HandleFunc("PATCH /api/doctor/articles/{id}", requireDoctor(article.Update))
	mux.HandleFunc("POST /api/doctor/articles/{id}/image", requireDoctor(article.UploadImage))
	mux.HandleFunc("DELETE /api/doctor/articles/{id}", requireDoctor(article.Delete))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/admin/doctors", requireAdmin(admin.Doctors))
	mux.HandleFunc("POST /api/admin/doctors", requireAdmin(admin.CreateDoctor))
	mux.HandleFunc("PATCH /api/admin/doctors/{id}", requireAdmin(admin.UpdateDoctor))
	mux.HandleFunc("PUT /api/admin/doctors/{id}", requireAdmin(admin.UpdateDoctor))
	mux.HandleFunc("GET /api/admin/articles", requireAdmin(admin.Articles))
	mux.HandleFunc("POST /api/admin/articles", requireAdmin(admin.CreateArticle))

	// 404 Handler - catch all unmatched routes
	mux.HandleFunc("/", handler.NotFound)

	// Global middleware
	return middleware.Chain(mux,
		middleware.CORS(app.Cfg.Origin),
		middleware.RequestLogging,
	)
}
