package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chatnest/chatnest-server/internal/api/messages"
	"github.com/chatnest/chatnest-server/internal/api/otp"
	"github.com/chatnest/chatnest-server/internal/api/users"
	"github.com/chatnest/chatnest-server/internal/auth"
	"github.com/chatnest/chatnest-server/internal/config"
	"github.com/chatnest/chatnest-server/internal/delivery"
	"github.com/chatnest/chatnest-server/internal/mail"
	"github.com/chatnest/chatnest-server/internal/middleware"
	"github.com/chatnest/chatnest-server/internal/presence"
	"github.com/chatnest/chatnest-server/internal/storage"
	"github.com/chatnest/chatnest-server/internal/storage/memory"
	"github.com/chatnest/chatnest-server/internal/storage/postgres"
	"github.com/chatnest/chatnest-server/internal/storage/valkeystore"
	"github.com/chatnest/chatnest-server/internal/ws"
)

const otpTTL = 5 * time.Minute

func main() {
	cfg := config.Load()

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	// Storage: postgres when configured, in-memory otherwise.
	var (
		messageLog storage.MessageLog
		userStore  storage.UserStore
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer db.Close()
		messageLog = postgres.NewMessageLog(db)
		userStore = postgres.NewUserStore(db)
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		messageLog = memory.NewMessageLog()
		userStore = memory.NewUserStore()
		logger.Warn().Msg("DATABASE_URL not set, using in-memory stores")
	}

	var otpStore storage.OTPStore
	if cfg.ValkeyAddr != "" {
		vk, err := valkeystore.NewOTPStore(cfg.ValkeyAddr, otpTTL)
		if err != nil {
			logger.Fatal().Err(err).Msg("valkey connection failed")
		}
		defer vk.Close()
		otpStore = vk
		logger.Info().Msg("connected to Valkey")
	} else {
		otpStore = memory.NewOTPStore(otpTTL)
	}

	var sender mail.Sender
	if cfg.SMTPHost != "" {
		sender = &mail.SMTPSender{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.MailFrom,
		}
	} else {
		sender = &mail.LogSender{Logger: logger}
	}

	// Core: presence registry, transport hub, delivery router.
	registry := presence.NewRegistry()
	hub := ws.NewHub(logger)
	go hub.Run()
	router := delivery.NewRouter(messageLog, registry, hub, logger)

	authenticator := auth.NewAuthenticator(cfg.JWTSecret, "chatnest", cfg.JWTValidity)

	r := mux.NewRouter()

	users.RegisterRoutes(r, &users.UserHandler{Store: userStore, Auth: authenticator, Logger: logger})
	messages.RegisterRoutes(r, &messages.MessageHandler{Router: router, Logger: logger})
	otp.RegisterRoutes(r, &otp.OTPHandler{Store: otpStore, Sender: sender, Logger: logger})

	sessions := &ws.SessionHandler{Hub: hub, Registry: registry, Router: router, Logger: logger}
	r.HandleFunc("/ws", sessions.ServeWS)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// CORS wraps outside the router so preflight requests get answered
	// even for method-restricted routes.
	handler := middleware.Logger(logger)(middleware.CORS(cfg.AllowedOrigin)(r))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting ChatNest server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server stopped")
}
