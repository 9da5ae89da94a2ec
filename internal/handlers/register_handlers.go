package handlers

import (
	"github.com/gin-gonic/gin"

	portsrepo "github.com/fxdesk/tradebook/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
	"github.com/fxdesk/tradebook/internal/middleware"
)

// ServiceContainer bundles the services the route registrations need.
type ServiceContainer struct {
	Trade     portssvc.TradeSvcFacade
	Reporting portssvc.ReportingSvcFacade
	RefData   portsrepo.RefDataReader
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *ServiceContainer) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *ServiceContainer) {
	// Caller identity applies to the whole v1 group; individual operations do
	// their own privilege checks in the service layer.
	v1 := r.Group("/api/v1", middleware.CallerIdentityMiddleware())

	registerTradeRoutes(v1, services.Trade)
	registerDashboardRoutes(v1, services.Reporting)
	registerRefDataRoutes(v1, services.RefData)
}
