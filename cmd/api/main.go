package main

import (
	"net/http"
	"os"
	"time"

	"med-adherence/internal/adapters/auth/tokenapi"
	"med-adherence/internal/platform/logger"
	"med-adherence/internal/ports/auth"
	"med-adherence/internal/router"

	_ "med-adherence/docs"
)

// @title Medication Adherence API
// @version 1.0
// @description Medication schedules, dose tracking, adherence history and caregiver access.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin AUTH_BASE_URL el servicio corre en modo dev (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("AUTH_BASE_URL"); baseURL != "" {
		client := tokenapi.NewClient(tokenapi.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("AUTH_API_KEY"),
		})
		verifier = tokenapi.NewVerifier(client)
		log.Info("auth verifier enabled", map[string]any{"base_url": baseURL})
	} else {
		log.Warn("auth verifier disabled, running in dev mode", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
