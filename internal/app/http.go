package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/barangaylink/sglgb-backend/internal/http"
	httpH "github.com/barangaylink/sglgb-backend/internal/http/handlers"
	httpMW "github.com/barangaylink/sglgb-backend/internal/http/middleware"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Assessment *httpH.AssessmentHandler
	Checklist  *httpH.ChecklistHandler
	Compliance *httpH.ComplianceHandler
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Assessment: httpH.NewAssessmentHandler(s.Assessment, s.Workflow),
		Checklist:  httpH.NewChecklistHandler(s.Evaluation),
		Compliance: httpH.NewComplianceHandler(s.Compliance),
	}
}

func wireRouter(log *logger.Logger, h Handlers, mw Middleware) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:               log,
		Metrics:           observability.Current(),
		AuthMiddleware:    mw.Auth,
		AssessmentHandler: h.Assessment,
		ChecklistHandler:  h.Checklist,
		ComplianceHandler: h.Compliance,
		HealthHandler:     h.Health,
	})
}
