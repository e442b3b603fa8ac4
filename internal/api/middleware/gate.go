package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/authz"
)

var errLoginRequired = errors.New("login required")

// Gate applies the page authorization table. It must run after OptionalJWT.
func Gate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var session *authz.Session
		if actor, ok := ActorFromContext(ctx); ok {
			session = &authz.Session{UserID: actor.UserID, Role: actor.Role}
		}

		decision := authz.Authorize(ctx.Request.URL.Path, session)
		switch decision.Outcome {
		case authz.Allow:
			ctx.Next()
		case authz.Redirect:
			ctx.Redirect(http.StatusFound, decision.Target)
			ctx.Abort()
		default:
			response.RenderErr(ctx, response.ErrUnauthorized(errLoginRequired))
		}
	}
}

// PageGate runs Gate for every path outside apiPrefix. It is mounted on unmatched
// routes so that dashboard subpaths are decided like the dashboards themselves.
func PageGate(apiPrefix string) gin.HandlerFunc {
	gate := Gate()
	return func(ctx *gin.Context) {
		p := ctx.Request.URL.Path
		if p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/") {
			ctx.Next()
			return
		}
		gate(ctx)
	}
}
