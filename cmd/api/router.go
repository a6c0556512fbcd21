package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fmoreau/taskdeck/internal/config"
	"github.com/fmoreau/taskdeck/internal/handlers"
	"github.com/fmoreau/taskdeck/internal/middleware"
	"github.com/fmoreau/taskdeck/internal/repo"
)

// newRouter wires repositories, handlers, and middleware onto a chi router.
// Everything below /auth/me and /tasks requires a valid session cookie.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	secret := []byte(cfg.JWTSecret)
	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	authHandler := &handlers.AuthHandler{
		Users:        repo.NewUserRepo(db),
		Secret:       secret,
		TokenTTL:     cfg.TokenTTL,
		SecureCookie: cfg.IsProd(),
	}
	taskHandler := &handlers.TaskHandler{
		Tasks: repo.NewTaskRepo(db),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(hsts))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(secret))
		r.Get("/auth/me", authHandler.Me)
		r.Get("/tasks", taskHandler.List)
		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks/{id}", taskHandler.Get)
		r.Put("/tasks/{id}", taskHandler.Update)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	return r
}

// Transport-level limits for the http.Server in main.
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = time.Minute
)
