package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventforge/hackathon-api/internal/domain"
)

func TestTeamService_Create(t *testing.T) {
	svc := NewTeamService(newFakeTeams(), newFakeEvents(hackathon()))
	leader := domain.Actor{UserID: 5, Role: domain.RoleParticipant}

	team, err := svc.Create(context.Background(), leader, domain.Team{EventID: 7, Name: "Rustaceans"})
	require.NoError(t, err)
	require.NotNil(t, team.LeaderID)
	assert.Equal(t, uint(5), *team.LeaderID)
	assert.Equal(t, domain.DefaultTeamMaxMembers, team.MaxMembers)

	_, err = svc.Create(context.Background(), leader, domain.Team{EventID: 7, Name: "Second"})
	assert.ErrorIs(t, err, ErrAlreadyInTeam)

	_, err = svc.Create(context.Background(), leader, domain.Team{EventID: 7})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTeamService_Create_TeamsDisabled(t *testing.T) {
	e := hackathon()
	e.Modules.Teams = false
	svc := NewTeamService(newFakeTeams(), newFakeEvents(e))

	_, err := svc.Create(context.Background(), domain.Actor{UserID: 5}, domain.Team{EventID: 7, Name: "A"})
	assert.ErrorIs(t, err, ErrTeamsDisabled)

	_, err = svc.Create(context.Background(), domain.Actor{UserID: 5}, domain.Team{EventID: 404, Name: "A"})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestTeamService_Join(t *testing.T) {
	leaderID := uint(5)
	teams := newFakeTeams(domain.Team{ID: 1, EventID: 7, Name: "A", LeaderID: &leaderID, MaxMembers: 2})
	svc := NewTeamService(teams, newFakeEvents(hackathon()))

	joined, err := svc.Join(context.Background(), domain.Actor{UserID: 6}, 1)
	require.NoError(t, err)
	assert.True(t, joined.HasUser(6))
	assert.Equal(t, 2, joined.Size())

	_, err = svc.Join(context.Background(), domain.Actor{UserID: 6}, 1)
	assert.ErrorIs(t, err, ErrAlreadyInTeam)

	_, err = svc.Join(context.Background(), domain.Actor{UserID: 7}, 1)
	assert.ErrorIs(t, err, ErrTeamFull)

	_, err = svc.Join(context.Background(), domain.Actor{UserID: 7}, 9)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamService_ListByEvent(t *testing.T) {
	svc := NewTeamService(newFakeTeams(teamsFixture()...), newFakeEvents(hackathon()))

	teams, err := svc.ListByEvent(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	_, err = svc.ListByEvent(context.Background(), 8)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
