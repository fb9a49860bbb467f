package main

import (
	"context"
	"crypto/rand"
	"log"
	"log/slog"
	"net/http"

	"github.com/csg33k/wages-generator/internal/adapters/sqldb"
	"github.com/csg33k/wages-generator/internal/adapters/wages"
	"github.com/csg33k/wages-generator/internal/adapters/xlsx"
	"github.com/csg33k/wages-generator/internal/auth"
	"github.com/csg33k/wages-generator/internal/config"
	"github.com/csg33k/wages-generator/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	repo, err := sqldb.Open(context.Background(), cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer repo.Close()

	nf, err := wages.Locale(cfg.SalaryLocale)
	if err != nil {
		log.Fatalf("salary locale: %v", err)
	}
	enc := wages.New(wages.WithFallbackLocale(nf))

	creds, err := cfg.Credentials()
	if err != nil {
		log.Fatal(err)
	}
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("generate session secret: %v", err)
		}
		slog.Warn("JWT_SECRET not set; sessions will not survive a restart")
	}

	h := handlers.New(
		repo,
		enc,
		xlsx.NewReader(),
		auth.NewGate(creds, auth.NewThrottle(cfg.LockoutAttempts, cfg.LockoutDuration)),
		auth.NewSessions(secret, cfg.SessionTTL),
		handlers.Settings{DefaultBatch: cfg.DefaultBatch, TrailingCRLF: cfg.TrailingCRLF},
		slog.Default(),
	)

	log.Printf("Quarterly Wages Generator running on http://localhost:%s", cfg.Port)
	log.Printf("Database: %s (%s)", cfg.DBDSN, cfg.DBDriver)
	if err := http.ListenAndServe(":"+cfg.Port, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
