// Package rest wires the chi router, middleware and handlers into the HTTP
// surface served by both the standalone server and the Lambda adapter.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"gatherly-backend/infrastructure/config"
	"gatherly-backend/interfaces/http/rest/handlers"
	"gatherly-backend/interfaces/http/rest/middleware"
	"gatherly-backend/pkg/auth"
)

// Router assembles the HTTP surface.
type Router struct {
	cfg        *config.Config
	validator  *auth.JWTValidator
	profile    *handlers.ProfileHandler
	experience *handlers.ExperienceHandler
	group      *handlers.GroupHandler
	attendance *handlers.AttendanceHandler
	logger     *zap.Logger
}

// NewRouter creates a router over the assembled handlers.
func NewRouter(
	cfg *config.Config,
	validator *auth.JWTValidator,
	profile *handlers.ProfileHandler,
	experience *handlers.ExperienceHandler,
	group *handlers.GroupHandler,
	attendance *handlers.AttendanceHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		validator:  validator,
		profile:    profile,
		experience: experience,
		group:      group,
		attendance: attendance,
		logger:     logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		if rt.cfg.IsLambda {
			// API Gateway's authorizer validated the token; the Lambda
			// entrypoint translated its context into identity headers.
			r.Use(middleware.AuthenticateFromGateway())
		} else {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
		}

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me", rt.profile.GetProfile)
			r.Put("/me", rt.profile.SaveProfile)
			r.Delete("/me", rt.profile.DeleteProfile)
			r.Get("/{userID}", rt.profile.GetProfile)
		})

		r.Route("/experiences", func(r chi.Router) {
			r.Post("/", rt.experience.CreateExperience)
			r.Get("/", rt.experience.ListExperiences)
			r.Get("/nearby", rt.experience.Nearby)
			r.Route("/{experienceID}", func(r chi.Router) {
				r.Get("/", rt.experience.GetExperience)
				r.Put("/", rt.experience.UpdateExperience)
				r.Delete("/", rt.experience.DeleteExperience)
				r.Get("/groups", rt.experience.GetExperienceGroups)
				r.Post("/interest", rt.attendance.MarkInterest)
				r.Post("/payment", rt.attendance.MarkPayment)
				r.Get("/interested", rt.attendance.ListInterested)
				r.Get("/attendees", rt.attendance.ListAttendees)
			})
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", rt.group.CreateGroup)
			r.Get("/", rt.group.ListGroups)
			r.Route("/{groupID}", func(r chi.Router) {
				r.Get("/", rt.group.GetGroup)
				r.Put("/", rt.group.UpdateGroup)
				r.Delete("/", rt.group.DeleteGroup)
				r.Post("/members", rt.group.AddMembers)
				r.Delete("/members", rt.group.RemoveMembers)
				r.Get("/experiences", rt.group.ListGroupExperiences)
				r.Put("/experiences/{experienceID}", rt.group.LinkExperience)
				r.Delete("/experiences/{experienceID}", rt.group.UnlinkExperience)
			})
		})

		r.Get("/me/experiences", rt.attendance.Timeline)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
