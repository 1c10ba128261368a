package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/http/response"
	"github.com/barangaylink/sglgb-backend/internal/services"
)

type ChecklistHandler struct {
	evaluation services.EvaluationService
}

func NewChecklistHandler(evaluation services.EvaluationService) *ChecklistHandler {
	return &ChecklistHandler{evaluation: evaluation}
}

type answerRequest struct {
	ChecklistItemID uuid.UUID `json:"checklist_item_id" binding:"required"`
	Checked         *bool     `json:"checked"`
	Count           *int      `json:"count"`
	Answer          *string   `json:"answer"`
}

type saveResponsesRequest struct {
	Answers []answerRequest `json:"answers" binding:"required"`
}

// PUT /api/assessments/:id/indicators/:indicatorId/responses
func (h *ChecklistHandler) SaveResponses(c *gin.Context) {
	assessmentID, indicatorID, ok := pathIDs(c)
	if !ok {
		return
	}
	var req saveResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	actor, ok := requestActor(c)
	if !ok {
		return
	}
	answers := make([]services.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, services.AnswerInput{
			ChecklistItemID: a.ChecklistItemID,
			Checked:         a.Checked,
			Count:           a.Count,
			Answer:          a.Answer,
		})
	}
	res, err := h.evaluation.SaveResponses(c.Request.Context(), services.SaveResponsesInput{
		AssessmentID: assessmentID,
		IndicatorID:  indicatorID,
		Actor:        actor,
		Answers:      answers,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"evaluation": res})
}

// POST /api/assessments/:id/indicators/:indicatorId/reevaluate
func (h *ChecklistHandler) Reevaluate(c *gin.Context) {
	assessmentID, indicatorID, ok := pathIDs(c)
	if !ok {
		return
	}
	res, err := h.evaluation.Reevaluate(c.Request.Context(), assessmentID, indicatorID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"evaluation": res})
}

type setValidationRequest struct {
	// Status is PASS or FAIL; null resets the decision to the evaluator's
	// recommendation.
	Status *string `json:"status"`
}

// PUT /api/assessments/:id/indicators/:indicatorId/validation
func (h *ChecklistHandler) SetValidationStatus(c *gin.Context) {
	assessmentID, indicatorID, ok := pathIDs(c)
	if !ok {
		return
	}
	var req setValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	actor, ok := requestActor(c)
	if !ok {
		return
	}
	res, err := h.evaluation.SetValidationStatus(c.Request.Context(), domainagg.SetValidationStatusInput{
		AssessmentID: assessmentID,
		IndicatorID:  indicatorID,
		Status:       req.Status,
		Actor:        actor,
		At:           time.Now().UTC(),
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"validation": res})
}

// GET /api/assessments/:id/validation
func (h *ChecklistHandler) ListValidation(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	rows, err := h.evaluation.ListValidation(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"validation_records": rows})
}

func pathIDs(c *gin.Context) (assessmentID, indicatorID uuid.UUID, ok bool) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	indicatorID, err = uuid.Parse(c.Param("indicatorId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_indicator_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	return assessmentID, indicatorID, true
}
