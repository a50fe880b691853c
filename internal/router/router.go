package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go-movie-api/internal/handler"
	"go-movie-api/internal/middleware"
)

type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	RateLimit      *middleware.RateLimitMiddleware
	Metrics        *middleware.Metrics
}

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Movie  *handler.MovieHandler
	Health *handler.HealthHandler
}

// New wires every route. Login authenticates with the local strategy inside
// the auth handler; everything under the guard uses bearer tokens.
func New(opts Options, guard *middleware.Guard, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimit := opts.RateLimit
	if rateLimit == nil {
		rateLimit = middleware.NewRateLimitMiddleware(nil, 0, 0)
	}

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler)
		rateLimit.OnLimited(opts.Metrics.RecordRateLimited)
	}
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Exposition())
	}

	r.Group(func(api chi.Router) {
		api.Use(rateLimit.Handler)
		api.Use(middleware.Timeout(opts.RequestTimeout))

		api.Get("/", h.Health.Welcome)
		api.Post("/login", h.Auth.Login)
		api.Post("/users", h.User.Register)

		api.Group(func(protected chi.Router) {
			protected.Use(guard.RequireAuth)

			protected.Get("/users", h.User.List)
			protected.Get("/users/{username}", h.User.Get)

			self := middleware.RequireSelf("username")
			protected.With(self).Put("/users/{username}", h.User.Update)
			protected.With(self).Delete("/users/{username}", h.User.Delete)
			protected.With(self).Post("/users/{username}/movies/{movieID}", h.User.AddFavorite)
			protected.With(self).Delete("/users/{username}/movies/{movieID}", h.User.RemoveFavorite)

			protected.Get("/movies", h.Movie.List)
			protected.Get("/movies/{title}", h.Movie.GetByTitle)
			protected.Get("/movies/genre/{genreName}", h.Movie.GetGenre)
			protected.Get("/movies/directors/{directorName}", h.Movie.GetDirector)
		})
	})

	return r
}
