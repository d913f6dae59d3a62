package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-api/internal/handler"
	"github.com/carebridge/carebridge-api/internal/model"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
	ContextActor    = "actor"
)

// Actor resolves the authenticated caller from the gateway-injected headers
// and rejects requests that carry none. Identity verification happens at the
// edge; this layer only translates it into an explicit model.Actor.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(HeaderActorID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing or invalid actor identity"))
			return
		}

		role := model.Role(c.GetHeader(HeaderActorRole))
		if !role.IsValid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing or invalid actor role"))
			return
		}

		c.Set(ContextActor, model.Actor{UserID: id, Role: role})
		c.Next()
	}
}

// ActorFrom returns the Actor stored by the middleware.
func ActorFrom(c *gin.Context) model.Actor {
	actor, _ := c.Get(ContextActor)
	a, _ := actor.(model.Actor)
	return a
}

// RequireRole gates a route group to one role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFrom(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
			return
		}
		c.Next()
	}
}
