package routes

import (
	"staylink/channelsync/internal/api"
	"staylink/channelsync/internal/metrics"
	"staylink/channelsync/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, metricsReg *metrics.MetricsRegistry, deps *api.Dependencies) {

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))
		v1.Use(middleware.AuthMiddleware(&deps.Repo.Keys)) // global: all routes must be authenticated

		// Property registry
		v1.Post("/properties", api.CreatePropertyHandler(deps.Repo.Property))
		v1.Get("/properties/{propertyID}", api.GetPropertyHandler(deps.Repo.Property))

		// Channel integrations
		v1.Post("/integrations", api.ConnectChannelHandler(deps.Services.Integration))
		v1.Get("/integrations", api.ListIntegrationsHandler(deps.Services.Integration))
		v1.Patch("/integrations/{integrationID}", api.UpdateIntegrationHandler(deps.Services.Integration))
		v1.Delete("/integrations/{integrationID}", api.DisconnectChannelHandler(deps.Services.Integration))
		v1.Post("/integrations/{integrationID}/sync", api.TriggerSyncHandler(deps.SyncJob, deps.Services.SyncQueue))

		// Sync audit trail
		v1.Get("/sync/logs", api.ListSyncLogsHandler(deps.Repo.SyncLog))
		v1.Get("/sync/stats", api.SyncLogStatsHandler(deps.Repo.SyncLogStats))

		// Pricing rules
		v1.Post("/properties/{propertyID}/pricing-rules", api.CreatePricingRuleHandler(deps.Repo.PricingRule, deps.Repo.Property, deps.Services.Pricing))
		v1.Get("/properties/{propertyID}/pricing-rules", api.ListPricingRulesHandler(deps.Repo.PricingRule))
		v1.Put("/pricing-rules/{ruleID}", api.UpdatePricingRuleHandler(deps.Repo.PricingRule, deps.Services.Pricing))
		v1.Delete("/pricing-rules/{ruleID}", api.DeletePricingRuleHandler(deps.Repo.PricingRule, deps.Services.Pricing))
		v1.Get("/properties/{propertyID}/quote", api.QuoteHandler(deps.Services.Pricing))

		// Calendar
		v1.Get("/properties/{propertyID}/calendar", api.QueryCalendarHandler(deps.Services.Calendar))
		v1.Post("/properties/{propertyID}/calendar/block", api.BlockRangeHandler(deps.Services.Calendar))
		v1.Post("/properties/{propertyID}/calendar/unblock", api.UnblockRangeHandler(deps.Services.Calendar))
		v1.Post("/properties/{propertyID}/calendar/price", api.SetPriceHandler(deps.Services.Calendar))

		// Bookings
		v1.Post("/bookings/import", api.ImportBookingHandler(deps.Services.Booking))
		v1.Post("/bookings/{bookingID}/cancel", api.CancelBookingHandler(deps.Services.Booking))
		v1.Get("/bookings", api.ListBookingsHandler(deps.Services.Booking))
	})
}
