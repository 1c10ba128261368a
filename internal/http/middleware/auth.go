package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/barangaylink/sglgb-backend/internal/platform/ctxutil"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

// RoleClaims is the token payload the engine trusts. Identity management
// (issuing, refresh, role assignment) belongs to an upstream system; this
// middleware only verifies the signature and projects the claims into the
// request context.
type RoleClaims struct {
	jwt.RegisteredClaims
	Role              string   `json:"role"`
	BarangayID        string   `json:"barangay_id,omitempty"`
	GovernanceAreaIDs []string `json:"governance_area_ids,omitempty"`
}

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		log:    log.With("middleware", "AuthMiddleware"),
		secret: []byte(secret),
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		actor, err := am.actorFromToken(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		ctx := ctxutil.WithActorData(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) actorFromToken(tokenString string) (*ctxutil.ActorData, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &RoleClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return am.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*RoleClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}
	if claims.Role == "" {
		return nil, fmt.Errorf("token carries no role")
	}

	actor := &ctxutil.ActorData{UserID: userID, Role: claims.Role}
	if claims.BarangayID != "" {
		barangayID, err := uuid.Parse(claims.BarangayID)
		if err != nil {
			return nil, fmt.Errorf("invalid barangay id in token: %w", err)
		}
		actor.BarangayID = &barangayID
	}
	for _, raw := range claims.GovernanceAreaIDs {
		areaID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid governance area id in token: %w", err)
		}
		actor.GovernanceAreaIDs = append(actor.GovernanceAreaIDs, areaID)
	}
	return actor, nil
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
