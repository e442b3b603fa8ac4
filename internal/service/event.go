package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/repository"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context, statuses []domain.EventStatus) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

// BulkDispatcher starts certificate issuance for an event that just completed.
type BulkDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event)
}

type EventService struct {
	repo       EventRepository
	dispatcher BulkDispatcher
}

func NewEventService(repo EventRepository, dispatcher BulkDispatcher) *EventService {
	return &EventService{
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// CreateEventInput is a new event. A nil Modules enables every module.
type CreateEventInput struct {
	Event   domain.Event
	Modules *domain.ModulesPatch
}

func (s *EventService) Create(ctx context.Context, actor domain.Actor, in CreateEventInput) (domain.Event, error) {
	if !actor.Role.CanManageEvents() {
		return domain.Event{}, ErrForbidden
	}

	event := in.Event
	if event.Status == "" {
		event.Status = domain.StatusDraft
	}
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	event.ID = 0
	event.OrganizerID = actor.UserID
	event.Modules = domain.DefaultModules()
	if in.Modules != nil {
		event.Modules = event.Modules.Merge(*in.Modules)
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

// List returns events newest first, optionally restricted to the given statuses.
func (s *EventService) List(ctx context.Context, statuses []domain.EventStatus) ([]domain.Event, error) {
	for _, st := range statuses {
		if !validStatus(st) {
			return nil, NewValidationError("status", fmt.Sprintf("unknown status %q", st))
		}
	}

	events, err := s.repo.FindAll(ctx, statuses)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

// ApplyUpdate persists a partial update. When the update moves the event into the
// completed state with certificates enabled, bulk issuance is dispatched once.
func (s *EventService) ApplyUpdate(ctx context.Context, actor domain.Actor, id uint, patch domain.EventPatch) (domain.Event, error) {
	event, err := s.manageable(ctx, actor, id)
	if err != nil {
		return domain.Event{}, err
	}

	oldStatus := event.Status
	updated := patch.Apply(event)
	if err = validateEvent(updated); err != nil {
		return domain.Event{}, err
	}

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if domain.CompletesEvent(oldStatus, saved) {
		s.dispatcher.Dispatch(ctx, saved)
	}

	return saved, nil
}

// Authorize checks that actor may update the event, without touching it.
func (s *EventService) Authorize(ctx context.Context, actor domain.Actor, id uint) error {
	_, err := s.manageable(ctx, actor, id)
	return err
}

func (s *EventService) manageable(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error) {
	if !actor.Role.CanManageEvents() {
		return domain.Event{}, ErrForbidden
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !actor.IsAdmin() && !actor.Owns(event) {
		return domain.Event{}, ErrForbidden
	}

	return event, nil
}

func (s *EventService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func validStatus(st domain.EventStatus) bool {
	for _, s := range domain.EventStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func validateEvent(e domain.Event) error {
	verr := &ValidationError{Fields: map[string]string{}}
	if e.Title == "" {
		verr.Fields["title"] = "is required"
	}
	if e.Description == "" {
		verr.Fields["description"] = "is required"
	}
	if e.StartDate.IsZero() {
		verr.Fields["startDate"] = "is required"
	}
	if e.EndDate.IsZero() {
		verr.Fields["endDate"] = "is required"
	}
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		verr.Fields["endDate"] = "must not be before startDate"
	}
	if !validStatus(e.Status) {
		verr.Fields["status"] = fmt.Sprintf("unknown status %q", e.Status)
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
