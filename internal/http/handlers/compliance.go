package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/http/response"
	"github.com/barangaylink/sglgb-backend/internal/services"
)

type ComplianceHandler struct {
	compliance services.ComplianceService
}

func NewComplianceHandler(compliance services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{compliance: compliance}
}

// GET /api/assessments/:id/rollup
func (h *ComplianceHandler) Rollup(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	report, err := h.compliance.Rollup(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rollup": report})
}

// GET /api/assessments/:id/functionality
func (h *ComplianceHandler) Functionality(c *gin.Context) {
	assessmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_assessment_id", err)
		return
	}
	levels, err := h.compliance.Functionality(c.Request.Context(), assessmentID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"institutions": levels})
}
