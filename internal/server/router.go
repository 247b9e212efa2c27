// Package server assembles the HTTP router.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/studydesk/backend/internal/auth"
	"github.com/studydesk/backend/internal/cache"
	"github.com/studydesk/backend/internal/config"
	"github.com/studydesk/backend/internal/dashboard"
	"github.com/studydesk/backend/internal/generator"
	"github.com/studydesk/backend/internal/middleware"
	"github.com/studydesk/backend/internal/models"
	"github.com/studydesk/backend/internal/monitoring"
	"github.com/studydesk/backend/internal/notebook"
	"github.com/studydesk/backend/internal/questions"
	"github.com/studydesk/backend/internal/quiz"
	"github.com/studydesk/backend/internal/respond"
	"github.com/studydesk/backend/internal/review"
	"github.com/studydesk/backend/internal/tracing"
	"go.uber.org/zap"
)

// Services holds everything the handlers depend on.
type Services struct {
	Auth      auth.Store
	Questions *questions.Service
	Quiz      *quiz.Service
	Review    *review.Service
	Notebook  *notebook.Service
	Dashboard *dashboard.Service
}

// NewServices builds the Postgres-backed services.
func NewServices(db *sql.DB, c *cache.Cache, gen *generator.Generator, log *zap.Logger) *Services {
	qs := questions.NewService(questions.NewStore(db), gen, c, log)
	return &Services{
		Auth:      auth.NewStore(db),
		Questions: qs,
		Quiz:      quiz.NewService(quiz.NewStore(db), qs, c, log),
		Review:    review.NewService(review.NewStore(db)),
		Notebook:  notebook.NewService(notebook.NewStore(db), log),
		Dashboard: dashboard.NewService(dashboard.NewStore(db), c, log),
	}
}

// NewRouter mounts every route under /api/v1. The rate limiter lives until
// ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, svc *Services, log *zap.Logger) http.Handler {
	secret := []byte(cfg.JWT.Secret)

	authHandler := auth.NewHandler(svc.Auth, secret, cfg.JWT.TTL(), log)
	questionHandler := questions.NewHandler(svc.Questions, log)
	quizHandler := quiz.NewHandler(svc.Quiz, log)
	reviewHandler := review.NewHandler(svc.Review, log)
	notebookHandler := notebook.NewHandler(svc.Notebook, log)
	dashboardHandler := dashboard.NewHandler(svc.Dashboard, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(monitoring.Middleware)
	if cfg.Tracing.Enabled {
		r.Use(tracing.Middleware)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", monitoring.Handler()).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	api.Use(limiter.Middleware)

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(secret))
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/subjects", questionHandler.ListSubjects).Methods("GET")
	protected.HandleFunc("/subjects/{id}/questions", questionHandler.PracticeQuestions).Methods("GET")
	protected.HandleFunc("/questions/{id}/answers", questionHandler.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/answers/{id}/classification", questionHandler.ClassifyAnswer).Methods("PUT")

	quizHandler.RegisterRoutes(protected)

	protected.HandleFunc("/review", reviewHandler.GetReview).Methods("GET")

	dashboardHandler.RegisterRoutes(protected)

	protected.HandleFunc("/notebook", notebookHandler.List).Methods("GET")
	protected.HandleFunc("/notebook/highlights", notebookHandler.AddHighlight).Methods("POST")
	protected.HandleFunc("/notebook/notes", notebookHandler.AddNote).Methods("POST")
	protected.HandleFunc("/notebook/{id}", notebookHandler.Delete).Methods("DELETE")

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/questions", questionHandler.ListQuestions).Methods("GET")
	admin.HandleFunc("/questions", questionHandler.CreateQuestion).Methods("POST")
	admin.HandleFunc("/questions/draft", questionHandler.DraftExplanation).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}
