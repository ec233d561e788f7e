// main.go - Entry point for the journal backend server

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"go-journal-backend/auth"
	"go-journal-backend/config"
	"go-journal-backend/database"
	"go-journal-backend/handlers"
	"go-journal-backend/logger"
	"go-journal-backend/mqtt"
	"go-journal-backend/registration"
	"go-journal-backend/services"
	"go-journal-backend/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	// STEP 1: Load configuration and logger
	cfg := config.MustLoad(*configPath)
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	log.WithField("env", cfg.Env).Info("starting journal backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// STEP 2: Establish connections
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection error")
	}
	defer func() { _ = database.Close(db) }()

	events, err := mqtt.New(cfg.MQTT, log)
	if err != nil {
		// events are best effort; run without them
		log.WithError(err).Warn("MQTT connection error, lifecycle events disabled")
		events = mqtt.Nop{}
	}
	defer events.Close()

	// STEP 3: Build stores and services
	users := store.NewUsers(db)
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, auth.WithTTL(cfg.Auth.TokenTTL))
	if err != nil {
		log.WithError(err).Fatal("token issuer")
	}
	svc, err := services.NewAuthService(
		users,
		registration.NewValidator(users, cfg.Auth.PhoneRegion),
		auth.NewPasswordHasher(cfg.Auth.PasswordCost),
		tokens,
		log,
	)
	if err != nil {
		log.WithError(err).Fatal("auth service")
	}

	if _, err := svc.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.WithError(err).Fatal("bootstrap admin")
	}

	// STEP 4: Create router and configure routes
	h := handlers.NewHandler(handlers.Deps{
		Auth:           svc,
		Journal:        store.NewJournal(db),
		Records:        store.NewRecords(db),
		Tokens:         tokens,
		Users:          users,
		Events:         events,
		Log:            log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      h.InitRoutes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// STEP 5: Start the web server and wait for a shutdown signal
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
