package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/seatbook-api/internal/middleware"
	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requireClaims renders 401 and returns nil when the request carries no claims.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil
	}
	return claims
}
