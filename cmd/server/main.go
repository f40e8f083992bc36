// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skibazar/internal/mail"
	"skibazar/internal/platform/config"
	"skibazar/internal/platform/httpserver"
	"skibazar/internal/platform/logger"
	"skibazar/internal/platform/metrics"
	"skibazar/internal/registration/handler"
	"skibazar/internal/registration/service"
	"skibazar/internal/registration/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	var regStore service.Store
	if cfg.DatabaseDSN != "" {
		db, err := store.Open(context.Background(), cfg.DatabaseDSN)
		if err != nil {
			log.Error("database setup failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		regStore = store.NewPostgres(db)
		log.Info("using postgres store")
	} else {
		regStore = store.NewInMemoryStore()
		log.Warn("no database configured, using in-memory store")
	}

	var mailer service.ConfirmationSender
	composer, err := mail.NewComposer(cfg.SMTP.Sender, cfg.EditBaseURL)
	if err != nil {
		log.Error("mail composer setup failed", "error", err)
		os.Exit(1)
	}
	if !cfg.SMTP.Configured() {
		log.Warn("smtp credentials missing, confirmation mails will fail into the log")
	}
	mailer = mail.NewMailer(composer, mail.NewSMTPNotifier(cfg.SMTP, cfg.MailTimeout), log, m)

	svc := service.New(regStore, mailer, log, m, cfg.MailTimeout)
	h := handler.New(svc, log, m, cfg.AdminToken)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())
	h.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting skibazar backend", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
