package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/api/middleware"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/service"
)

var errNotLoggedIn = errors.New("not logged in")

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.HealthResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}

// HandleNotFound answers unmatched routes the gate let through.
func HandleNotFound(ctx *gin.Context) {
	response.RenderErr(ctx, response.ErrNotFound("page", "path", ctx.Request.URL.Path))
}

func currentActor(ctx *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errNotLoggedIn))
		return domain.Actor{}, false
	}

	return actor, true
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v %q", name, ctx.Param(name))))
		return 0, false
	}

	return uint(id), true
}

// renderServiceErr maps the errors shared by every service. Not-found errors are
// rendered by the handlers, which know the missing id.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.RenderErr(ctx, response.ErrValidation(verr.Fields))
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrTeamFull), errors.Is(err, service.ErrAlreadyInTeam):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrTeamsDisabled), errors.Is(err, service.ErrCertificatesOff):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%v -> %w", op, err)))
	}
}
