package routes

import (
	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/handler"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Operations   *handler.OperationHandler
	Tags         *handler.TagHandler
	BankAccounts *handler.BankAccountHandler
	Health       *handler.HealthHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)

	operations := router.Group("/operations")
	{
		operations.GET("", h.Operations.List)
		operations.GET("/triage", h.Operations.Triage)
		operations.GET("/:id", h.Operations.Get)

		operations.POST("/batch", h.Operations.InsertBatch)
		operations.POST("/import", h.Operations.Import)
		operations.POST("/collisions/refresh", h.Operations.RefreshCollisions)

		operations.PUT("/:id/details", h.Operations.UpdateDetails)
		operations.DELETE("/:id", h.Operations.Delete)
		operations.POST("/:id/tags/apply", h.Operations.ApplyTags)
	}

	router.GET("/tags", h.Tags.ListTags)
	router.POST("/tags", h.Tags.SaveTag)

	router.GET("/tag-rules", h.Tags.ListTagRules)
	router.POST("/tag-rules", h.Tags.SaveTagRule)
	router.POST("/tag-rules/apply", h.Tags.RetagAll)

	router.GET("/bank-accounts", h.BankAccounts.List)
	router.POST("/bank-accounts", h.BankAccounts.Save)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, allowedOrigins []string) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins...))
}
