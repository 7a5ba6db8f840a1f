package rest

import (
	"net/http"

	"github.com/frahmantamala/access-request/api"
	"github.com/frahmantamala/access-request/internal/auth"
	"github.com/frahmantamala/access-request/internal/transport/middleware"
	"github.com/frahmantamala/access-request/internal/transport/swagger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handlers) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, h)
	return router
}

func RegisterAllRoutes(router *chi.Mux, h *Handlers) {
	rbac := h.RBAC

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RequestSize(h.MaxBodyBytes))
	router.Use(middleware.LoggingMiddleware(h.Logger))
	// after logging so the trace id lands on the request-scoped logger
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(h.Logger))
	router.Use(middleware.CORS(h.AllowedOrigins))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.Health.WriteError(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.Health.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// API description, outside the /api prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api", func(r chi.Router) {
		r.Use(h.OpenAPI)

		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
		})

		// catalog reads are public
		r.Get("/software", h.Software.List)
		r.Get("/software/{id}", h.Software.Get)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.Require(auth.CapabilityCatalogManage))
				ar.Post("/software", h.Software.Create)
				ar.Patch("/software/{id}", h.Software.Update)
				ar.Put("/software/{id}", h.Software.Update)
				ar.Delete("/software/{id}", h.Software.Delete)
			})

			pr.With(rbac.Require(auth.CapabilityRequestSubmit)).Post("/requests", h.AccessRequest.Create)
			pr.With(rbac.Require(auth.CapabilityRequestViewOwn)).Get("/requests/my", h.AccessRequest.ListMine)

			pr.Group(func(mr chi.Router) {
				mr.Use(rbac.Require(auth.CapabilityRequestReview))
				mr.Get("/requests", h.AccessRequest.ListAll)
				mr.Get("/requests/pending", h.AccessRequest.ListPending)
				mr.Patch("/requests/{id}", h.AccessRequest.UpdateStatus)
				mr.Put("/requests/{id}/approve", h.AccessRequest.Approve)
				mr.Patch("/requests/{id}/approve", h.AccessRequest.Approve)
				mr.Put("/requests/{id}/reject", h.AccessRequest.Reject)
				mr.Patch("/requests/{id}/reject", h.AccessRequest.Reject)
			})
		})
	})
}
