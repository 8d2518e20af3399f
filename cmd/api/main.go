package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/carecircle/backend/docs"
	"github.com/carecircle/backend/internal/config"
	"github.com/carecircle/backend/internal/member"
	"github.com/carecircle/backend/internal/notification"
	"github.com/carecircle/backend/internal/session"
	"github.com/carecircle/backend/internal/status"
	"github.com/carecircle/backend/internal/store"
	"github.com/carecircle/backend/internal/task"
	mw "github.com/carecircle/backend/pkg/middleware"
)

// @title        CareCircle API
// @version      1.0
// @description  Support-circle coordination: shared calendar tasks, mood updates and membership roles.
// @BasePath     /api/v1
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Open the document store
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer st.Close()

	log.Info().Str("dir", cfg.DataDir).Msg("Store opened")

	// Session feature
	sessionService := session.NewService(st)
	sessionHandler := session.NewHandler(sessionService)

	// Member feature
	memberService := member.NewService(st)
	memberHandler := member.NewHandler(memberService, sessionService)

	// Task feature
	taskService := task.NewService(st)
	taskHandler := task.NewHandler(taskService, sessionService)

	// Status feature
	statusService := status.NewService(st)
	statusHandler := status.NewHandler(statusService, sessionService)

	// Notification feature (mailbox viewer)
	notificationService := notification.NewService(st)
	notificationHandler := notification.NewHandler(notificationService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", sessionHandler.Routes())
		r.Mount("/mailbox", notificationHandler.Routes())

		// Group-scoped routes require an active circle session
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(sessionService))
			r.Mount("/members", memberHandler.Routes())
			r.Mount("/tasks", taskHandler.Routes())
			r.Mount("/updates", statusHandler.Routes())
		})
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Server starting")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
