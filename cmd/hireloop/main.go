package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/auth"
	"github.com/hireloop-dev/hireloop/internal/handlers"
	"github.com/hireloop-dev/hireloop/internal/notifier"
	"github.com/hireloop-dev/hireloop/internal/router"
	"github.com/hireloop-dev/hireloop/internal/services"
	"github.com/hireloop-dev/hireloop/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	gdb, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mailerURL := os.Getenv("MAILER_URL")

	if mailerURL == "" {
		mailerURL = "http://localhost:8025/send-email"
		log.Println("MAILER_URL not set, defaulting to " + mailerURL)
	}

	mailerTimeout := 10 * time.Second

	if raw := os.Getenv("MAILER_TIMEOUT"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			mailerTimeout = time.Duration(seconds) * time.Second
		}
	}

	mailer := services.NewMailer(mailerURL, mailerTimeout)

	applications := store.NewApplicationStore(gdb)
	jobs := store.NewJobStore(gdb)
	notifications := store.NewNotificationStore(gdb)

	hub := handlers.NewHub()

	dispatcher := notifier.New(mailer, notifications, hub)
	dispatcher.Start()

	applicationService := services.NewApplicationService(applications, jobs, dispatcher)

	r := router.NewRouter(router.Deps{
		DB:            gdb,
		Auth:          handlers.NewAuthHandler(gdb),
		Applications:  handlers.NewApplicationHandler(applicationService),
		Notifications: handlers.NewNotificationHandler(mailer, notifications),
		Health:        handlers.NewHealthHandler(gdb, mailer),
		Hub:           hub,
	})

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Listening on :%s", port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	dispatcher.Stop()
}
