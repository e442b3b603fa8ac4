package repository

import (
	"context"
	"fmt"

	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/repository/dao"
)

var ErrTeamNotFound = dao.ErrTeamNotFound

type TeamDAO interface {
	Insert(ctx context.Context, team dao.Team) (dao.Team, error)
	FindByID(ctx context.Context, id uint) (dao.Team, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Team, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Team, error)
	FindByEventStatus(ctx context.Context, status string) ([]dao.Team, error)
	AddMember(ctx context.Context, teamID, userID uint) error
}

type TeamRepository struct {
	dao TeamDAO
}

func NewTeamRepository(dao TeamDAO) *TeamRepository {
	return &TeamRepository{
		dao: dao,
	}
}

func (r *TeamRepository) Create(ctx context.Context, team domain.Team) (domain.Team, error) {
	created, err := r.dao.Insert(ctx, dao.Team{
		EventID:     team.EventID,
		LeaderID:    team.LeaderID,
		Name:        team.Name,
		Description: team.Description,
		Tags:        team.Tags,
		MaxMembers:  team.MaxMembers,
	})
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return teamDaoToDomain(created), nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id uint) (domain.Team, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return teamDaoToDomain(found), nil
}

func (r *TeamRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Team, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return teamsDaoToDomain(found), nil
}

func (r *TeamRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Team, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return teamsDaoToDomain(found), nil
}

func (r *TeamRepository) FindByEventStatus(ctx context.Context, status domain.EventStatus) ([]domain.Team, error) {
	found, err := r.dao.FindByEventStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventStatus -> %w", err)
	}

	return teamsDaoToDomain(found), nil
}

func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID uint) error {
	if err := r.dao.AddMember(ctx, teamID, userID); err != nil {
		return fmt.Errorf("r.dao.AddMember -> %w", err)
	}

	return nil
}

func teamDaoToDomain(t dao.Team) domain.Team {
	var leader *domain.User
	if t.Leader != nil {
		u := userDaoToDomain(*t.Leader)
		leader = &u
	}

	return domain.Team{
		ID:          t.ID,
		EventID:     t.EventID,
		LeaderID:    t.LeaderID,
		Leader:      leader,
		Members:     usersDaoToDomain(t.Members),
		Name:        t.Name,
		Description: t.Description,
		Tags:        nonNil(t.Tags),
		MaxMembers:  t.MaxMembers,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func teamsDaoToDomain(teams []dao.Team) []domain.Team {
	out := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamDaoToDomain(t))
	}

	return out
}
