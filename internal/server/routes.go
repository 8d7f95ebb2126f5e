package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/agentic-insurtech/insurtech/internal/handler"
	"github.com/agentic-insurtech/insurtech/internal/middleware"
)

func (s *Server) routes() http.Handler {
	cfg := s.cfg
	d := s.deps

	healthH := handler.NewHealthHandler(d.health)
	toolH := handler.NewToolHandler(d.registry)
	riskH := handler.NewRiskHandler(d.riskModel)
	policyH := handler.NewPolicyHandler(d.policies, d.masker)
	escalationH := handler.NewEscalationHandler(d.escalator)
	perfH := handler.NewPerformanceHandler(d.memoryLog, cfg.AgentTargets)
	assistantH := handler.NewAssistantHandler(d.assistant, cfg.AgentTimeout)

	r := chi.NewRouter()

	// Core middleware
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Group(func(r chi.Router) {
		if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
			r.Use(middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
		} else {
			r.Use(middleware.APIKeyContext(cfg.APIKeyHeader))
		}
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, cfg.APIKeyHeader))

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Get("/tools", toolH.List)
			r.Post("/tools/{name}", toolH.Invoke)

			r.Post("/risk/assess", riskH.Assess)

			r.Get("/policies", policyH.Search)
			r.Get("/policies/{policy_number}", policyH.Get)
			r.Get("/policies/{policy_number}/summary", policyH.Summary)

			r.Post("/escalations", escalationH.Create)
			r.Get("/agents/performance", perfH.Performance)

			r.Post("/assistant", assistantH.Ask)
		})
	})

	return r
}
