package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventforge/hackathon-api/internal/api/handler/v1/request"
	"github.com/eventforge/hackathon-api/internal/api/handler/v1/response"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/service"
)

type EventService interface {
	Create(ctx context.Context, actor domain.Actor, in service.CreateEventInput) (domain.Event, error)
	Get(ctx context.Context, id uint) (domain.Event, error)
	Authorize(ctx context.Context, actor domain.Actor, id uint) error
	List(ctx context.Context, statuses []domain.EventStatus) ([]domain.Event, error)
	ApplyUpdate(ctx context.Context, actor domain.Actor, id uint, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Lists events newest first. status takes one value or a comma separated list.
// @Tags         events
// @Produce      json
// @Param        status  query     string  false  "e.g. ongoing,completed"
// @Success      200     {object}  response.EventsResponse
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	var statuses []domain.EventStatus
	for _, s := range strings.Split(ctx.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, domain.EventStatus(s))
		}
	}

	events, err := h.svc.List(ctx.Request.Context(), statuses)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEvents -> h.svc.List", err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{Events: events})
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Admins and organizers only. Defaults to status draft with every module enabled.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "event"
// @Success      201      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), actor, service.CreateEventInput{
		Event:   req.ToDomain(),
		Modules: req.Modules,
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.EventResponse{Event: event})
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.Get(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Partial update by an admin or the owning organizer. Moving the event to completed
// @Description  issues certificates to every team leader and member when the certificates module is on.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                         true  "Event ID"
// @Param        request  body      request.UpdateEventRequest  true  "fields to change"
// @Success      200      {object}  response.EventResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	if err := h.svc.Authorize(ctx.Request.Context(), actor, eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.Authorize", err)
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.ApplyUpdate(ctx.Request.Context(), actor, eventID, req.ToPatch())
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.ApplyUpdate", err)
		return
	}

	ctx.JSON(http.StatusOK, response.EventResponse{Event: event})
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.SuccessResponse
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx, "eventID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "id", eventID))
			return
		}
		renderServiceErr(ctx, "v1.HandleDeleteEvent -> h.svc.Delete", err)
		return
	}

	ctx.JSON(http.StatusOK, response.SuccessResponse{Success: true})
}
