package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"familyrelay/config"
	_ "familyrelay/docs"
	"familyrelay/internal/adapters/auth"
	"familyrelay/internal/adapters/email"
	"familyrelay/internal/adapters/push"
	delivery "familyrelay/internal/delivery/http"
	"familyrelay/internal/delivery/http/controllers"
	"familyrelay/internal/delivery/http/middleware"
	"familyrelay/internal/repository/postgres"
	"familyrelay/internal/repository/postgres/migrations"
	"familyrelay/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title familyrelay API
// @version 1.0
// @description Family groups, invitations, and location broadcast.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		logger.Error("run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	familyRepo := postgres.NewFamilyRepository(db)
	tokenRepo := postgres.NewDeviceTokenRepository(db)

	// Adapters
	_, verifier := auth.NewJWT(cfg.JWTSecret)
	pusher, err := push.NewPusher(push.Config{Provider: cfg.PushProvider})
	if err != nil {
		logger.Error("create pusher", "err", err)
		os.Exit(1)
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer())
	familySvc := services.NewFamilyService(familyRepo, serviceTimeout)
	inviteSvc := services.NewInvitationService(userRepo, tokenRepo, familySvc, pusher, emailSvc, serviceTimeout)
	broadcastSvc := services.NewBroadcastService(familyRepo, tokenRepo, pusher, serviceTimeout)

	// HTTP
	mux := delivery.NewRouter(
		logger,
		verifier,
		controllers.NewFamilyController(logger, familySvc),
		controllers.NewInviteController(logger, inviteSvc),
		controllers.NewLocationController(logger, familySvc, broadcastSvc),
		controllers.NewDeviceController(logger, tokenRepo),
	)
	handler := middleware.Logging(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
