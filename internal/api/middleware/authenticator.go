package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/pkg/jwthelper"
)

const (
	actorKey = "actor"

	// tokenQueryParam carries the token for websocket upgrades, where browsers cannot set headers.
	tokenQueryParam = "access_token"
)

var (
	errMissingToken      = errors.New("missing bearer token")
	errUserAgentMismatch = errors.New("token was issued to another client")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, err := a.authenticate(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(actorKey, actor)
		ctx.Next()
	}
}

// OptionalJWT records the actor when a valid token is present and never rejects.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if actor, err := a.authenticate(ctx); err == nil {
			ctx.Set(actorKey, actor)
		}
		ctx.Next()
	}
}

func (a *Authenticator) authenticate(ctx *gin.Context) (domain.Actor, error) {
	raw := bearerToken(ctx)
	if raw == "" {
		return domain.Actor{}, errMissingToken
	}

	claims, err := jwthelper.ParseToken(a.key, raw)
	if err != nil {
		return domain.Actor{}, err
	}
	if claims.UserAgent != "" && claims.UserAgent != ctx.Request.UserAgent() {
		return domain.Actor{}, errUserAgentMismatch
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.Actor{}, err
	}

	return domain.Actor{
		UserID: userID,
		Role:   domain.Role(claims.Role).OrDefault(),
	}, nil
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query(tokenQueryParam)
}

// ActorFromContext returns the actor stored by VerifyJWT or OptionalJWT.
func ActorFromContext(ctx *gin.Context) (domain.Actor, bool) {
	v, ok := ctx.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)

	return actor, ok
}
