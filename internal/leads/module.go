// Package leads provides the lead view bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	apphttp "leaddesk_backend/internal/http"
	"leaddesk_backend/internal/leads/adapters"
	"leaddesk_backend/internal/leads/handler"
	"leaddesk_backend/internal/leads/ports"
	"leaddesk_backend/internal/leads/service"
	"leaddesk_backend/internal/leads/timeline"
	"leaddesk_backend/internal/leads/transition"
	"leaddesk_backend/platform/config"
	"leaddesk_backend/platform/logger"
	"leaddesk_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// Source bundles the two upstream-facing ports the module consumes. The
// concrete HTTP client satisfies both.
type Source interface {
	ports.LeadSource
	ports.LeadUpdater
}

// NewModule creates and initializes the leads module with all its dependencies.
// redisClient may be nil; the status cache then reads through to the upstream
// on every call.
func NewModule(source Source, translator ports.Translator, redisClient *redis.Client, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	statusCache := adapters.NewStatusCache(source, redisClient, cfg.GetStatusCacheTTL(), log)
	aggregator := timeline.New(translator, cfg.GetCallMethodLabels())
	manager := transition.New(source)

	svc := service.New(source, statusCache, translator, aggregator, manager, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead view service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
