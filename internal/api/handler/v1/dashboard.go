package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/service"
)

type DashboardService interface {
	Admin(ctx context.Context) (service.Dashboard, error)
	Organizer(ctx context.Context, actor domain.Actor) (service.Dashboard, error)
	Judge(ctx context.Context) (service.Dashboard, error)
	Mentor(ctx context.Context) (service.Dashboard, error)
	Participant(ctx context.Context, actor domain.Actor) (service.Dashboard, error)
	Profile(ctx context.Context, actor domain.Actor) (service.Dashboard, error)
}

// DashboardHandler serves the role landing pages. Access is decided by the gate
// middleware mounted in front of these routes.
type DashboardHandler struct {
	svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{
		svc: svc,
	}
}

// HandleAdmin godoc
// @Summary      Admin dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Success      302  {string}  string  "redirect to the caller's dashboard"
// @Failure      401  {object}  response.Err
// @Router       /admin [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleAdmin(ctx *gin.Context) {
	h.render(ctx, "v1.HandleAdmin", func(c context.Context, _ domain.Actor) (service.Dashboard, error) {
		return h.svc.Admin(c)
	})
}

// HandleOrganizer godoc
// @Summary      Organizer dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  response.Err
// @Router       /organizer [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleOrganizer(ctx *gin.Context) {
	h.render(ctx, "v1.HandleOrganizer", h.svc.Organizer)
}

// HandleJudge godoc
// @Summary      Judge dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  response.Err
// @Router       /judge [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleJudge(ctx *gin.Context) {
	h.render(ctx, "v1.HandleJudge", func(c context.Context, _ domain.Actor) (service.Dashboard, error) {
		return h.svc.Judge(c)
	})
}

// HandleMentor godoc
// @Summary      Mentor dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  response.Err
// @Router       /mentor [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleMentor(ctx *gin.Context) {
	h.render(ctx, "v1.HandleMentor", func(c context.Context, _ domain.Actor) (service.Dashboard, error) {
		return h.svc.Mentor(c)
	})
}

// HandleParticipant godoc
// @Summary      Participant dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  response.Err
// @Router       /participant [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleParticipant(ctx *gin.Context) {
	h.render(ctx, "v1.HandleParticipant", h.svc.Participant)
}

// HandleProfile godoc
// @Summary      Profile of the caller
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  service.Dashboard
// @Failure      401  {object}  response.Err
// @Router       /profile [get]
// @Security BearerAuth
func (h *DashboardHandler) HandleProfile(ctx *gin.Context) {
	h.render(ctx, "v1.HandleProfile", h.svc.Profile)
}

func (h *DashboardHandler) render(
	ctx *gin.Context,
	op string,
	load func(context.Context, domain.Actor) (service.Dashboard, error),
) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	d, err := load(ctx.Request.Context(), actor)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "id", actor.UserID))
			return
		}
		renderServiceErr(ctx, op, err)
		return
	}

	ctx.JSON(http.StatusOK, d)
}
