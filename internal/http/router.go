package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/barangaylink/sglgb-backend/internal/http/handlers"
	httpMW "github.com/barangaylink/sglgb-backend/internal/http/middleware"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	AssessmentHandler *httpH.AssessmentHandler
	ChecklistHandler  *httpH.ChecklistHandler
	ComplianceHandler *httpH.ComplianceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Assessments and workflow
		if cfg.AssessmentHandler != nil {
			protected.POST("/assessments", cfg.AssessmentHandler.Create)
			protected.GET("/assessments", cfg.AssessmentHandler.List)
			protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
			protected.GET("/assessments/:id/actions", cfg.AssessmentHandler.AllowedActions)
			protected.POST("/assessments/:id/transitions", cfg.AssessmentHandler.Transition)
		}

		// Checklist responses and validation
		if cfg.ChecklistHandler != nil {
			protected.PUT("/assessments/:id/indicators/:indicatorId/responses", cfg.ChecklistHandler.SaveResponses)
			protected.POST("/assessments/:id/indicators/:indicatorId/reevaluate", cfg.ChecklistHandler.Reevaluate)
			protected.PUT("/assessments/:id/indicators/:indicatorId/validation", cfg.ChecklistHandler.SetValidationStatus)
			protected.GET("/assessments/:id/validation", cfg.ChecklistHandler.ListValidation)
		}

		// Compliance read models
		if cfg.ComplianceHandler != nil {
			protected.GET("/assessments/:id/rollup", cfg.ComplianceHandler.Rollup)
			protected.GET("/assessments/:id/functionality", cfg.ComplianceHandler.Functionality)
		}
	}

	return r
}
