package app

import (
	"gorm.io/gorm"

	dataagg "github.com/barangaylink/sglgb-backend/internal/data/aggregates"
	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
	"github.com/barangaylink/sglgb-backend/internal/services"
)

type Services struct {
	Assessment services.AssessmentService
	Workflow   services.WorkflowService
	Evaluation services.EvaluationService
	Compliance services.ComplianceService

	Bus      services.EventBus
	Notifier services.AssessmentNotifier

	AssessmentAggregate domainagg.AssessmentAggregate
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")

	var hooks dataagg.Hooks
	if observability.Enabled() {
		hooks = dataagg.NewObservabilityHooks(observability.Current())
	}
	aggregate := dataagg.NewAssessmentAggregate(dataagg.AssessmentAggregateDeps{
		Base:        dataagg.BaseDeps{DB: db, Log: log, Hooks: hooks},
		Assessments: r.Assessments,
		Validations: r.Validations,
		Indicators:  r.Indicators,
		Workflow: workflow.Config{
			MaxCalibrationRounds: cfg.Policy.MaxCalibrationRounds,
			RequireApproval:      cfg.Policy.RequireApproval,
		},
	})

	var bus services.EventBus
	var notifier services.AssessmentNotifier
	if cfg.RedisAddr != "" {
		var err error
		bus, err = services.NewRedisEventBus(log)
		if err != nil {
			return Services{}, err
		}
		notifier = services.NewAssessmentNotifier(log, bus)
	} else {
		log.Warn("REDIS_ADDR not set, audit and verdict events will not be published")
	}

	assessment := services.NewAssessmentService(db, log, r.Assessments)
	compliance := services.NewComplianceService(services.ComplianceServiceDeps{
		DB:           db,
		Log:          log,
		Policy:       cfg.Policy,
		Assessments:  r.Assessments,
		Areas:        r.Areas,
		Institutions: r.Institutions,
		Indicators:   r.Indicators,
		Validations:  r.Validations,
	})
	evaluation := services.NewEvaluationService(services.EvaluationServiceDeps{
		DB:          db,
		Log:         log,
		Aggregate:   aggregate,
		Assessments: r.Assessments,
		Indicators:  r.Indicators,
		Items:       r.Items,
		Responses:   r.Responses,
		Validations: r.Validations,
	})
	workflowSvc := services.NewWorkflowService(log, aggregate, assessment, compliance, notifier)

	return Services{
		Assessment:          assessment,
		Workflow:            workflowSvc,
		Evaluation:          evaluation,
		Compliance:          compliance,
		Bus:                 bus,
		Notifier:            notifier,
		AssessmentAggregate: aggregate,
	}, nil
}
