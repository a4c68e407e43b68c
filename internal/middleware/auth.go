package middleware

import (
	"context"
	"net/http"
	"strings"

	"taller/internal/apierror"
	"taller/internal/model"
	"taller/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey = "claims"
	ActorKey  = "actor"
	TokenKey  = "token"
)

// TokenValidator checks an access token, including revocation.
type TokenValidator interface {
	ValidarToken(ctx context.Context, token string) (*service.Claims, error)
}

// JWTAuth validates the Bearer token on every protected route and stores the
// claims and the derived Actor in the context.
func JWTAuth(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := v.ValidarToken(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		actor, err := claims.Actor()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Set(TokenKey, tokenStr)
		c.Next()
	}
}

// RequireCapacidad rejects requests whose actor lacks the capability.
func RequireCapacidad(capacidad model.Capacidad) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetActor(c).Puede(capacidad) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	claims, _ := c.MustGet(ClaimsKey).(*service.Claims)
	return claims
}

// GetActor returns the authenticated actor; the zero Actor has no capabilities.
func GetActor(c *gin.Context) service.Actor {
	actor, _ := c.Get(ActorKey)
	a, _ := actor.(service.Actor)
	return a
}

// GetToken returns the raw bearer token of the request.
func GetToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
