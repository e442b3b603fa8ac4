package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/request"
	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/service"
)

type TeamService interface {
	Create(ctx context.Context, actor domain.Actor, team domain.Team) (domain.Team, error)
	Join(ctx context.Context, actor domain.Actor, teamID uint) (domain.Team, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Team, error)
}

type TeamHandler struct {
	svc TeamService
}

func NewTeamHandler(svc TeamService) *TeamHandler {
	return &TeamHandler{
		svc: svc,
	}
}

// HandleListTeams godoc
// @Summary      List the teams of an event
// @Tags         teams
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.TeamsResponse
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/teams [get]
func (h *TeamHandler) HandleListTeams(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	teams, err := h.svc.ListByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleListTeams -> h.svc.ListByEvent", err)
		return
	}
	if teams == nil {
		teams = []domain.Team{}
	}

	ctx.JSON(http.StatusOK, response.TeamsResponse{Teams: teams})
}

// HandleCreateTeam godoc
// @Summary      Create a team
// @Description  The caller becomes the team leader. A user belongs to at most one team per event.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                        true  "Event ID"
// @Param        request  body      request.CreateTeamRequest  true  "team"
// @Success      201      {object}  response.TeamResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/teams [post]
// @Security BearerAuth
func (h *TeamHandler) HandleCreateTeam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	var req request.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.Create(ctx.Request.Context(), actor, req.ToDomain(eventID))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleCreateTeam -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.TeamResponse{Team: team})
}

// HandleJoinTeam godoc
// @Summary      Join a team
// @Tags         teams
// @Produce      json
// @Param        teamID  path      int  true  "Team ID"
// @Success      200     {object}  response.TeamResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /teams/{teamID}/members [post]
// @Security BearerAuth
func (h *TeamHandler) HandleJoinTeam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(ctx, "teamID")
	if !ok {
		return
	}

	team, err := h.svc.Join(ctx.Request.Context(), actor, teamID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			response.RenderErr(ctx, response.ErrNotFound("team", "id", teamID))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "teamID", teamID))
		default:
			renderServiceErr(ctx, "v1.HandleJoinTeam -> h.svc.Join", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, response.TeamResponse{Team: team})
}
