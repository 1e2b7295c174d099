package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"talkproposals/config"
	_ "talkproposals/docs"
	"talkproposals/internal/adapters/auth"
	"talkproposals/internal/adapters/email"
	"talkproposals/internal/adapters/weburls"
	httpdelivery "talkproposals/internal/delivery/http"
	"talkproposals/internal/delivery/http/controllers"
	"talkproposals/internal/delivery/http/middleware"
	"talkproposals/internal/repository/postgres"
	"talkproposals/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title           Talk Proposals API
// @version         1.0
// @description     Conference talk and tutorial proposal management.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	conferenceRepo := postgres.NewConferenceRepository(db)
	proposalRepo := postgres.NewProposalRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	reviewRepo := postgres.NewLLMReviewRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Fail fast when the configured conference does not exist.
	startupCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	defer cancel()
	conference, err := conferenceRepo.GetByID(startupCtx, cfg.ConferenceID)
	if err != nil {
		logger.Error("Failed to load conference", "conference_id", cfg.ConferenceID, "error", err)
		os.Exit(1)
	}
	logger.Info("Serving conference", "conference_id", conference.ID, "name", conference.Name)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("Failed to configure mailer", "error", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	emailService := services.NewEmailService(mailer, renderer)
	proposalService := services.NewProposalService(proposalRepo, speakerRepo, choiceMap(cfg.TalkDurations), serviceTimeout)
	speakerService := services.NewSpeakerService(speakerRepo, proposalRepo, userRepo, emailService, serviceTimeout)
	reviewService := services.NewLLMReviewService(reviewRepo, choiceMap(cfg.ReviewCategories), serviceTimeout)

	urls := weburls.NewResolver(cfg.FrontendBaseURL)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	proposalController := controllers.NewProposalController(logger, proposalService, urls, cfg.ConferenceID)
	speakerController := controllers.NewSpeakerController(logger, speakerService, proposalService, cfg.ConferenceID)
	reviewController := controllers.NewReviewController(logger, reviewService, cfg.ConferenceID)

	mux := httpdelivery.NewRouter(proposalController, speakerController, reviewController, verifier, logger)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)

	addr := ":" + cfg.Port
	logger.Info("Starting server", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func choiceMap(choices []config.Choice) map[string]string {
	m := make(map[string]string, len(choices))
	for _, c := range choices {
		m[c.Value] = c.Label
	}
	return m
}
