package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ostryk/contactio/internal/adapters/email"
	"github.com/ostryk/contactio/internal/adapters/handler/http"
	"github.com/ostryk/contactio/internal/adapters/repository/postgres"
	"github.com/ostryk/contactio/internal/adapters/storage"
	"github.com/ostryk/contactio/internal/config"
	"github.com/ostryk/contactio/internal/core/ports"
	"github.com/ostryk/contactio/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	contactRepo := postgres.NewContactRepository(db)

	var sender ports.EmailSender = email.LogSender{}
	if cfg.SMTPHost != "" {
		sender = email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}

	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.ConfirmTokenTTL)
	authSvc := services.NewAuthService(userRepo, hasher, tokens, sender)
	userSvc := services.NewUserService(userRepo, storage.NewLocalAvatarStore(cfg.AvatarDir, cfg.AvatarBaseURL))
	contactSvc := services.NewContactService(contactRepo)

	handler := http.NewHandler(
		http.NewAuthHandler(authSvc),
		http.NewUserHandler(userSvc),
		http.NewContactHandler(contactSvc),
		http.NewHealthHandler(db),
		http.NewAuthenticator(authSvc),
	)
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
