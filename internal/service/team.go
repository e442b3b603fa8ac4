package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/repository"
)

type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) (domain.Team, error)
	FindByID(ctx context.Context, id uint) (domain.Team, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Team, error)
	AddMember(ctx context.Context, teamID, userID uint) error
}

type TeamService struct {
	repo   TeamRepository
	events EventFinder
}

func NewTeamService(repo TeamRepository, events EventFinder) *TeamService {
	return &TeamService{
		repo:   repo,
		events: events,
	}
}

// Create registers a team for an event with the actor as its leader.
func (s *TeamService) Create(ctx context.Context, actor domain.Actor, team domain.Team) (domain.Team, error) {
	if team.Name == "" {
		return domain.Team{}, NewValidationError("name", "is required")
	}

	teams, err := s.eventTeams(ctx, team.EventID)
	if err != nil {
		return domain.Team{}, err
	}
	for _, t := range teams {
		if t.HasUser(actor.UserID) {
			return domain.Team{}, ErrAlreadyInTeam
		}
	}

	leaderID := actor.UserID
	team.ID = 0
	team.LeaderID = &leaderID
	team.Members = nil
	if team.MaxMembers <= 0 {
		team.MaxMembers = domain.DefaultTeamMaxMembers
	}

	created, err := s.repo.Create(ctx, team)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Join adds the actor to a team, keeping one team per user per event.
func (s *TeamService) Join(ctx context.Context, actor domain.Actor, teamID uint) (domain.Team, error) {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return domain.Team{}, ErrTeamNotFound
		}
		return domain.Team{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	teams, err := s.eventTeams(ctx, team.EventID)
	if err != nil {
		return domain.Team{}, err
	}
	for _, t := range teams {
		if t.HasUser(actor.UserID) {
			return domain.Team{}, ErrAlreadyInTeam
		}
	}
	if team.Size() >= team.MaxMembers {
		return domain.Team{}, ErrTeamFull
	}

	if err = s.repo.AddMember(ctx, team.ID, actor.UserID); err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.AddMember -> %w", err)
	}

	joined, err := s.repo.FindByID(ctx, team.ID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return joined, nil
}

func (s *TeamService) ListByEvent(ctx context.Context, eventID uint) ([]domain.Team, error) {
	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}

	teams, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return teams, nil
}

// eventTeams loads the teams of an event that accepts team registration.
func (s *TeamService) eventTeams(ctx context.Context, eventID uint) ([]domain.Team, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Modules.Teams {
		return nil, ErrTeamsDisabled
	}

	teams, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return teams, nil
}

func (s *TeamService) findEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	return event, nil
}
