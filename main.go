package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"wedding-rsvp/config"
	"wedding-rsvp/controllers"
	"wedding-rsvp/routes"
	"wedding-rsvp/services"
	"wedding-rsvp/utils"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	cfg := config.Get()
	config.InitLogger(cfg)

	if envErr != nil {
		log.Warn().Msg("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	if cfg.AdminAPIKey == "" && cfg.AdminAPIKeyHash == "" {
		log.Warn().Msg("⚠️  ADMIN_API_KEY is not set; every admin request will be rejected")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatal().Err(err).Msg("❌ Database connect failed")
	}
	db := config.DB
	if db == nil {
		log.Fatal().Msg("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Info().Msg("✅ Database connection established and migrations applied.")

	var mailer services.Mailer
	if cfg.SMTP.Configured() {
		mailer = &utils.SMTPMailer{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			FromName:    cfg.SMTP.FromName,
			FromAddress: cfg.SMTP.FromAddress,
		}
		log.Info().Str("host", cfg.SMTP.Host).Msg("✅ SMTP mailer configured.")
	} else {
		mailer = utils.MockMailer{}
		log.Warn().Msg("⚠️  SMTP not configured; emails will be logged, not sent")
	}

	// Initialize services
	directoryService := services.NewDirectoryService(db)
	rsvpService := services.NewRSVPService(db)
	emailService := services.NewEmailService(db, mailer, cfg.BaseURL)
	quizService := services.NewQuizService(db, cfg.QuizVisitorSalt)

	// Initialize controllers
	adminController := controllers.NewAdminController(directoryService, emailService, quizService)
	emailController := controllers.NewEmailController(emailService)
	rsvpController := controllers.NewRSVPController(rsvpService)
	quizController := controllers.NewQuizController(quizService)

	router := routes.SetupRouter(adminController, emailController, rsvpController, quizController, routes.Options{
		CorsOrigins:     cfg.CorsOrigins,
		AdminAPIKey:     cfg.AdminAPIKey,
		AdminAPIKeyHash: cfg.AdminAPIKeyHash,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// bulk sends run inside the request
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("🚀 Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Warn().Msg("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Server forced to shutdown")
	}

	log.Info().Msg("✅ Server stopped gracefully")
}
