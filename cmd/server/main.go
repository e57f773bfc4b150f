package main

import (
	"log"
	"net/http"
	"time"

	"quickagenda/config"
	delivery "quickagenda/internal/delivery/http"
	"quickagenda/internal/delivery/http/controllers"
	"quickagenda/internal/delivery/http/middleware"
	"quickagenda/internal/repository/postgres"
	"quickagenda/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger()

	loc, err := time.LoadLocation(cfg.CalendarTimezone)
	if err != nil {
		log.Fatalf("Invalid CALENDAR_TIMEZONE %q: %v", cfg.CalendarTimezone, err)
	}

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)
	formRepo := postgres.NewFormRepository(db)
	responseRepo := postgres.NewFormResponseRepository(db)
	feedbackRepo := postgres.NewFeedbackRepository(db)

	eventService := services.NewEventService(eventRepo, sessionRepo, loc, serviceTimeout)
	attendeeService := services.NewAttendeeService(eventRepo, attendeeRepo, serviceTimeout)
	formService := services.NewFormService(eventRepo, formRepo, responseRepo, serviceTimeout)
	feedbackService := services.NewFeedbackService(feedbackRepo, serviceTimeout)

	router := delivery.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewAttendeeController(logger, attendeeService),
		controllers.NewFormController(logger, formService),
		controllers.NewFeedbackController(logger, feedbackService),
	)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
