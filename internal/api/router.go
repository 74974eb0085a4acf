package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cgrycki/workflow-test-backend/pkg/middleware"
	"github.com/cgrycki/workflow-test-backend/pkg/session"
	"github.com/cgrycki/workflow-test-backend/pkg/validate"
)

// NewRouter creates and configures the Gin router. Each route lists its
// validation steps in order; a failing step aborts before any store access.
func NewRouter(h *EventHandler, resolver *session.Resolver) *gin.Engine {
	r := gin.Default()

	// Middleware
	r.Use(middleware.CorrelationID())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Landing: frontend for authenticated visitors, /auth for the rest
	r.GET("/", h.Landing)

	// Event routes
	events := r.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", validate.ParamID(), h.GetEvent)
		events.POST("", validate.TextField(), validate.UserEmail(), resolver.Middleware(), h.CreateEvent)
		events.PATCH("/:id/:packageId", validate.ParamID(), validate.ParamPackageID(), h.UpdateEvent)
		events.DELETE("/:id", validate.ParamID(), h.DeleteEvent)
	}

	return r
}
