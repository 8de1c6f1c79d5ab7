package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/aleodoni/meetapp/internal/api"
	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/config"
	"github.com/aleodoni/meetapp/internal/database/migrations"
	file_db "github.com/aleodoni/meetapp/internal/files/db"
	"github.com/aleodoni/meetapp/internal/files/file_api"
	files "github.com/aleodoni/meetapp/internal/files/service"
	"github.com/aleodoni/meetapp/internal/kafka"
	"github.com/aleodoni/meetapp/internal/logger"
	meetup_db "github.com/aleodoni/meetapp/internal/meetups/db"
	"github.com/aleodoni/meetapp/internal/meetups/meetup_api"
	meetups "github.com/aleodoni/meetapp/internal/meetups/service"
	"github.com/aleodoni/meetapp/internal/sessions/session_api"
	sessions "github.com/aleodoni/meetapp/internal/sessions/service"
	"github.com/aleodoni/meetapp/internal/store/memory"
	user_db "github.com/aleodoni/meetapp/internal/users/db"
	"github.com/aleodoni/meetapp/internal/users/user_api"
	users "github.com/aleodoni/meetapp/internal/users/service"
)

// stores groups the persistence layers the services need, so the postgres
// and in-memory backends can be swapped in one place.
type stores struct {
	users   users.UserDBLayer
	files   files.FileDBLayer
	meetups meetups.MeetupDBLayer
	close   func() error
}

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var (
		sqldb *sql.DB
		err   error
	)

	retries := cfg.ConnectRetry
	if retries < 1 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, retries))
		sqldb, err = sql.Open("postgres", cfg.DSN())
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		sqldb.Close()
		if i < retries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL after %d attempts: %w", retries, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.LogDatabase("CONNECT", cfg.Database, fmt.Sprintf("✅ PostgreSQL connection successful to %s:%s (pool %d/%d)",
		cfg.Host, cfg.Port, cfg.MaxOpenConns, cfg.MaxIdleConns))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func openStores(cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("DATABASE", "Using in-memory store, data is lost on restart")
		store := memory.New()
		return &stores{users: store, files: store, meetups: store, close: func() error { return nil }}, nil
	}

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(cfg.Database.DSN(), migrations.MigrateOptions{
			MigrationsDir: cfg.Database.MigrationsDir,
			AutoMigrate:   true,
		}, log)
		err := runner.RunMigrations()
		if closeErr := runner.Close(); closeErr != nil {
			log.Warn("MIGRATE", closeErr.Error())
		}
		if err != nil {
			return nil, err
		}
	}

	bunDB, err := connectPostgres(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return &stores{
		users:   &user_db.DB{Bun: bunDB},
		files:   &file_db.DB{Bun: bunDB},
		meetups: &meetup_db.DB{Bun: bunDB},
		close:   bunDB.Close,
	}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, ".env file not found, using environment variables")
	}

	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{Dir: cfg.Log.Dir, Service: cfg.Log.Service})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting meetapp initialization")

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "APP_SECRET not set")
	}

	db, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer db.close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		log.Fatal("AUTH", err.Error())
	}

	var revocations auth.RevocationStore
	if cfg.Redis.Enabled {
		redisClient, err := auth.InitializeRedis(cfg.Redis, log)
		if err != nil {
			log.Fatal("REDIS", err.Error())
		}
		defer redisClient.Close()
		revocations = auth.NewRedisRevocationStore(redisClient)
	} else {
		log.Warn("REDIS", "Redis disabled, logout will not revoke tokens")
	}

	var events meetups.EventPublisher
	switch {
	case cfg.Kafka.MockMode:
		log.Info("KAFKA", "Kafka mock mode enabled, events are only logged")
		events = &kafka.LogPublisher{Logger: log}
	case cfg.Kafka.Enabled:
		if cfg.Kafka.EnsureTopics {
			topics := []string{cfg.Kafka.Topics.MeetupCreated, cfg.Kafka.Topics.MeetupUpdated, cfg.Kafka.Topics.MeetupDeleted}
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics, log); err != nil {
				log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
			} else {
				log.Info("KAFKA", "Required topics ensured successfully")
			}
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, log)
		defer producer.Close()
		events = producer
		log.Info("KAFKA", fmt.Sprintf("Kafka producer initialized for %v", cfg.Kafka.Brokers))
	default:
		log.Info("KAFKA", "Kafka disabled, meetup events are not published")
	}

	userService := users.NewUserService(db.users, log)
	sessionService := sessions.NewSessionService(db.users, tokens, revocations, log)
	fileService := files.NewFileService(db.files, cfg.Files.UploadDir, cfg.Server.FileURL, log)
	meetupService := meetups.NewMeetupService(db.meetups, events, log, cfg.Server.FileURL)

	log.Info("HTTP", "Setting up router and middleware")
	router := api.NewRouter(api.Deps{
		Users:       user_api.NewHandler(userService, log),
		Sessions:    session_api.NewHandler(sessionService, log),
		Files:       file_api.NewHandler(fileService, cfg.Files.MaxUploadMB, log),
		Meetups:     meetup_api.NewHandler(meetupService, log),
		Tokens:      tokens,
		Revocations: revocations,
		UploadDir:   cfg.Files.UploadDir,
		Origins:     cfg.CORS.AllowedOrigins,
		Logger:      log,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 meetapp running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ meetapp shutdown complete")
	}
}
