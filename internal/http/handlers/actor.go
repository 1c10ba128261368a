package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
	"github.com/barangaylink/sglgb-backend/internal/platform/ctxutil"
)

// requestActor projects the authenticated identity into the workflow's actor
// shape. A missing identity aborts the request; handlers can assume a valid
// actor after a true return.
func requestActor(c *gin.Context) (workflow.Actor, bool) {
	ad := ctxutil.GetActorData(c.Request.Context())
	if ad == nil || ad.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "missing identity", "code": "unauthorized"},
		})
		return workflow.Actor{}, false
	}
	return workflow.Actor{
		UserID:            ad.UserID,
		Role:              workflow.Role(ad.Role),
		BarangayID:        ad.BarangayID,
		GovernanceAreaIDs: ad.GovernanceAreaIDs,
	}, true
}
