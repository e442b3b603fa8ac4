package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context, statuses []string) ([]dao.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	d, err := eventDomainToDao(event)
	if err != nil {
		return domain.Event{}, err
	}

	created, err := r.dao.Insert(ctx, d)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created)
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found)
}

func (r *EventRepository) FindAll(ctx context.Context, statuses []domain.EventStatus) ([]domain.Event, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}

	found, err := r.dao.FindAll(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return eventsDaoToDomain(found)
}

func (r *EventRepository) FindByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	found, err := r.dao.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizerID -> %w", err)
	}

	return eventsDaoToDomain(found)
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	d, err := eventDomainToDao(event)
	if err != nil {
		return domain.Event{}, err
	}

	updated, err := r.dao.Update(ctx, d)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	out, err := eventDaoToDomain(updated)
	if err != nil {
		return domain.Event{}, err
	}
	out.Organizer = event.Organizer

	return out, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return n, nil
}

func eventDomainToDao(e domain.Event) (dao.Event, error) {
	var tmpl datatypes.JSON
	if e.CertificateTemplate != nil {
		b, err := json.Marshal(e.CertificateTemplate)
		if err != nil {
			return dao.Event{}, fmt.Errorf("json.Marshal certificate template -> %w", err)
		}
		tmpl = b
	}

	return dao.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		Rules:                e.Rules,
		Tracks:               e.Tracks,
		Status:               string(e.Status),
		OrganizerID:          e.OrganizerID,
		Modules: datatypes.NewJSONType(dao.EventModules{
			Judging:      e.Modules.Judging,
			Certificates: e.Modules.Certificates,
			Gallery:      e.Modules.Gallery,
			Teams:        e.Modules.Teams,
		}),
		CertificateTemplate: tmpl,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}, nil
}

func eventDaoToDomain(e dao.Event) (domain.Event, error) {
	var tmpl *domain.CertificateTemplate
	if len(e.CertificateTemplate) > 0 && string(e.CertificateTemplate) != "null" {
		tmpl = &domain.CertificateTemplate{}
		if err := json.Unmarshal(e.CertificateTemplate, tmpl); err != nil {
			return domain.Event{}, fmt.Errorf("json.Unmarshal certificate template of event %d -> %w", e.ID, err)
		}
	}

	var organizer *domain.User
	if e.Organizer != nil {
		u := userDaoToDomain(*e.Organizer)
		organizer = &u
	}

	m := e.Modules.Data()

	return domain.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		RegistrationDeadline: e.RegistrationDeadline,
		Rules:                nonNil(e.Rules),
		Tracks:               nonNil(e.Tracks),
		Status:               domain.EventStatus(e.Status),
		OrganizerID:          e.OrganizerID,
		Organizer:            organizer,
		Modules: domain.Modules{
			Judging:      m.Judging,
			Certificates: m.Certificates,
			Gallery:      m.Gallery,
			Teams:        m.Teams,
		},
		CertificateTemplate: tmpl,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}, nil
}

func eventsDaoToDomain(events []dao.Event) ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		d, err := eventDaoToDomain(e)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
