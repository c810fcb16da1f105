package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rolodexhq/rolodex/internal/infrastructure/http/handlers"
	"github.com/rolodexhq/rolodex/internal/infrastructure/http/middleware"
)

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UsersHandler
	Contacts *handlers.ContactsHandler
	Health   *handlers.HealthHandler

	Session       *middleware.SessionResolver
	IPRateLimit   func(next http.Handler) http.Handler
	UserRateLimit func(next http.Handler) http.Handler
	IsDevelopment bool
	Log           zerolog.Logger
}

// NewRouter assembles the full route tree with the shared middleware stack.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(cfg.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.NewSecure(middleware.SecureOptions(cfg.IsDevelopment)))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	r.Method(http.MethodGet, "/health", cfg.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			r.Post("/signup", cfg.Auth.Signup)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)
			r.Post("/logout", cfg.Auth.Logout)
			r.Post("/send-confirmation", cfg.Auth.SendConfirmation)
		})
		r.Get("/confirm-email/{token}", cfg.Auth.ConfirmEmail)
	})

	r.Group(func(r chi.Router) {
		r.Use(cfg.Session.Handler)
		if cfg.UserRateLimit != nil {
			r.Use(cfg.UserRateLimit)
		}

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", cfg.Users.Me)
			r.Patch("/avatar", cfg.Users.UpdateAvatar)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", cfg.Contacts.List)
			r.Post("/", cfg.Contacts.Create)
			r.Get("/search/first-name/{name}", cfg.Contacts.SearchByFirstName)
			r.Get("/search/last-name/{name}", cfg.Contacts.SearchByLastName)
			r.Get("/search/email/{email}", cfg.Contacts.GetByEmail)
			r.Get("/birthdays", cfg.Contacts.UpcomingBirthdays)
			r.Get("/{id}", cfg.Contacts.Get)
			r.Put("/{id}", cfg.Contacts.Update)
			r.Delete("/{id}", cfg.Contacts.Delete)
		})
	})

	return r
}

func requestLogger(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
