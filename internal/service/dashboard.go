package service

import (
	"context"
	"fmt"

	"github.com/eventforge/hackathon-api/internal/domain"
)

type DashboardUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

type DashboardEventRepository interface {
	FindAll(ctx context.Context, statuses []domain.EventStatus) ([]domain.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Event, error)
	Count(ctx context.Context) (int64, error)
}

type DashboardTeamRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]domain.Team, error)
	FindByEventStatus(ctx context.Context, status domain.EventStatus) ([]domain.Team, error)
}

type DashboardCertificateRepository interface {
	FindByRecipientEmail(ctx context.Context, email string) ([]domain.Certificate, error)
	Count(ctx context.Context) (int64, error)
}

// Dashboard is the JSON summary behind each role landing page. Fields irrelevant to the
// role are left empty.
type Dashboard struct {
	Role         domain.Role           `json:"role"`
	User         *domain.User          `json:"user,omitempty"`
	UsersByRole  map[domain.Role]int64 `json:"usersByRole,omitempty"`
	EventCount   *int64                `json:"eventCount,omitempty"`
	Certificates []domain.Certificate  `json:"certificates,omitempty"`
	CertCount    *int64                `json:"certificateCount,omitempty"`
	Events       []domain.Event        `json:"events,omitempty"`
	Teams        []domain.Team         `json:"teams,omitempty"`
}

type DashboardService struct {
	users  DashboardUserRepository
	events DashboardEventRepository
	teams  DashboardTeamRepository
	certs  DashboardCertificateRepository
}

func NewDashboardService(
	users DashboardUserRepository,
	events DashboardEventRepository,
	teams DashboardTeamRepository,
	certs DashboardCertificateRepository,
) *DashboardService {
	return &DashboardService{
		users:  users,
		events: events,
		teams:  teams,
		certs:  certs,
	}
}

func (s *DashboardService) Admin(ctx context.Context) (Dashboard, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.users.CountByRole -> %w", err)
	}
	events, err := s.events.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.events.Count -> %w", err)
	}
	certs, err := s.certs.Count(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.certs.Count -> %w", err)
	}

	return Dashboard{
		Role:        domain.RoleAdmin,
		UsersByRole: byRole,
		EventCount:  &events,
		CertCount:   &certs,
	}, nil
}

func (s *DashboardService) Organizer(ctx context.Context, actor domain.Actor) (Dashboard, error) {
	events, err := s.events.FindByOrganizerID(ctx, actor.UserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.events.FindByOrganizerID -> %w", err)
	}

	return Dashboard{Role: domain.RoleOrganizer, Events: events}, nil
}

// Judge lists running and finished events that have judging enabled.
func (s *DashboardService) Judge(ctx context.Context) (Dashboard, error) {
	events, err := s.events.FindAll(ctx, []domain.EventStatus{domain.StatusOngoing, domain.StatusCompleted})
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.events.FindAll -> %w", err)
	}

	judged := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Modules.Judging {
			judged = append(judged, e)
		}
	}

	return Dashboard{Role: domain.RoleJudge, Events: judged}, nil
}

// Mentor lists the teams of ongoing events.
func (s *DashboardService) Mentor(ctx context.Context) (Dashboard, error) {
	teams, err := s.teams.FindByEventStatus(ctx, domain.StatusOngoing)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.teams.FindByEventStatus -> %w", err)
	}

	return Dashboard{Role: domain.RoleMentor, Teams: teams}, nil
}

func (s *DashboardService) Participant(ctx context.Context, actor domain.Actor) (Dashboard, error) {
	d, err := s.Profile(ctx, actor)
	if err != nil {
		return Dashboard{}, err
	}
	d.Role = domain.RoleParticipant
	d.User = nil

	return d, nil
}

// Profile returns the caller with their teams and issued certificates.
func (s *DashboardService) Profile(ctx context.Context, actor domain.Actor) (Dashboard, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	teams, err := s.teams.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.teams.FindByUserID -> %w", err)
	}
	certs, err := s.certs.FindByRecipientEmail(ctx, user.Email)
	if err != nil {
		return Dashboard{}, fmt.Errorf("s.certs.FindByRecipientEmail -> %w", err)
	}

	return Dashboard{
		Role:         user.Role,
		User:         &user,
		Teams:        teams,
		Certificates: certs,
	}, nil
}
