package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/files/file_api"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/meetups/meetup_api"
	"github.com/aleodoni/meetapp/internal/sessions/session_api"
	"github.com/aleodoni/meetapp/internal/users/user_api"
	"github.com/aleodoni/meetapp/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps carries everything the router mounts.
type Deps struct {
	Users       *user_api.Handler
	Sessions    *session_api.Handler
	Files       *file_api.Handler
	Meetups     *meetup_api.Handler
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	UploadDir   string
	Origins     []string
	Logger      *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(requestLogger(d.Logger))

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/users", d.Users.CreateUser)
	r.Post("/sessions", d.Sessions.CreateSession)
	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(d.UploadDir))))
	d.Logger.Info("ROUTER", "Public routes registered: /health, /users, /sessions, /files")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.Tokens, d.Revocations, d.Logger))

		r.Put("/users", d.Users.UpdateUser)
		r.Delete("/sessions", d.Sessions.DestroySession)
		r.Post("/files", d.Files.UploadFile)
		d.Meetups.RegisterRoutes(r)
		d.Logger.Info("ROUTER", "Protected routes registered: /users, /sessions, /files, /meetups")
	})

	return r
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAPI(r.Method, r.URL.Path, status, time.Since(start))
			if status >= http.StatusInternalServerError {
				log.Warn("HTTP", fmt.Sprintf("request %s ended with %d", middleware.GetReqID(r.Context()), status))
			}
		})
	}
}
