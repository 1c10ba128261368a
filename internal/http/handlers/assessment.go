package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/http/response"
	"github.com/barangaylink/sglgb-backend/internal/services"
)

type AssessmentHandler struct {
	assessments services.AssessmentService
	workflows   services.WorkflowService
}

func NewAssessmentHandler(assessments services.AssessmentService, workflows services.WorkflowService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, workflows: workflows}
}

type createAssessmentRequest struct {
	BarangayID uuid.UUID `json:"barangay_id" binding:"required"`
	Year       int       `json:"year" binding:"required"`
}

// POST /api/assessments
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req createAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.assessments.Create(c.Request.Context(), req.BarangayID, req.Year)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"assessment": row})
}

// GET /api/assessments/:id
func (h *AssessmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	row, err := h.assessments.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessment": row})
}

// GET /api/assessments?status=SUBMITTED,IN_REVIEW
func (h *AssessmentHandler) List(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("status"))
	var statuses []string
	if raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}
	rows, err := h.assessments.ListByStatus(c.Request.Context(), statuses)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assessments": rows})
}

// GET /api/assessments/:id/actions
func (h *AssessmentHandler) AllowedActions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	actions, err := h.workflows.AllowedActions(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"actions": actions})
}

type transitionRequest struct {
	Action string `json:"action" binding:"required"`
	// ExpectedVersion below zero (or omitted) means no expectation.
	ExpectedVersion  *int        `json:"expected_version"`
	CalibrationScope []uuid.UUID `json:"calibration_scope"`
}

// POST /api/assessments/:id/transitions
func (h *AssessmentHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	actor, ok := requestActor(c)
	if !ok {
		return
	}
	expected := -1
	if req.ExpectedVersion != nil {
		expected = *req.ExpectedVersion
	}
	res, err := h.workflows.Transition(c.Request.Context(), services.TransitionInput{
		AssessmentID:     id,
		ExpectedVersion:  expected,
		Action:           workflow.Action(req.Action),
		Actor:            actor,
		CalibrationScope: req.CalibrationScope,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"transition": res})
}
