// Package main initializes and starts the integration hub HTTP server,
// setting up configuration, logging, the profile store connection,
// services, and handlers.
package main

import (
	"cmp"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/avetisov/toolhub/internal/config"
	"github.com/avetisov/toolhub/internal/crypto"
	"github.com/avetisov/toolhub/internal/db"
	"github.com/avetisov/toolhub/internal/logger"
	"github.com/avetisov/toolhub/internal/notify"
	"github.com/avetisov/toolhub/internal/repository"
	"github.com/avetisov/toolhub/internal/server/handler/http"
	"github.com/avetisov/toolhub/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// notifyTimeout bounds every outbound call to the main server.
const notifyTimeout = 10 * time.Second

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize the profile store connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Build the credential cipher. Missing or malformed key material is
	// reported now but only fails at first use, matching decrypt-on-demand.
	cipher := crypto.New(options.AESSecretKey, options.AESIV)
	if !cipher.Configured() {
		zapLogger.Warn("AES key or IV missing or malformed; credential decryption will fail")
	}

	// Initialize the profile repository.
	profileRepo := repository.NewPostgresProfileRepository(postgresDB)

	// Initialize business-logic services.
	vaultService := service.NewVaultService(profileRepo, cipher)
	settingsService := service.NewSettingsService(
		profileRepo,
		service.NewFieldDecryptor(cipher, options.EncryptionEnabled),
	)

	// Initialize the best-effort notifier for main-server calls.
	notifier := notify.NewNotifier(options.MainServerURL, notifyTimeout, zapLogger)

	// Create HTTP handlers.
	credentialsHandler := &http.CredentialsHandler{VaultService: vaultService}
	settingsHandler := &http.SettingsHandler{SettingsService: settingsService}
	notifyHandler := &http.NotifyHandler{Notifier: notifier, Profiles: profileRepo}

	// Build the router with middleware and routes.
	router := http.NewRouter(credentialsHandler, settingsHandler, notifyHandler, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Port),
		zap.String("main_server", options.MainServerURL),
		zap.Bool("encryption_enabled", options.EncryptionEnabled),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
