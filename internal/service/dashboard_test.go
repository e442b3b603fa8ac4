package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventforge/hackathon-api/internal/domain"
)

func TestDashboardService(t *testing.T) {
	users := newFakeUsers()
	ada, err := users.Create(context.Background(), domain.User{Email: "ada@example.com", Name: "Ada", Role: domain.RoleParticipant})
	require.NoError(t, err)
	_, err = users.Create(context.Background(), domain.User{Email: "org@example.com", Name: "Org", Role: domain.RoleOrganizer})
	require.NoError(t, err)

	noJudging := hackathon()
	noJudging.ID = 8
	noJudging.Modules.Judging = false
	events := newFakeEvents(hackathon(), noJudging)

	leaderID := ada.ID
	teams := newFakeTeams(domain.Team{ID: 1, EventID: 7, LeaderID: &leaderID})

	certID := "CERT-7-1-1"
	certs := &fakeCertificates{certs: []domain.Certificate{
		{ID: 1, EventID: 7, RecipientEmail: "ada@example.com", CertificateID: &certID},
	}}

	svc := NewDashboardService(users, events, teams, certs)
	ctx := context.Background()

	d, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.UsersByRole[domain.RoleOrganizer])
	assert.Equal(t, int64(2), *d.EventCount)
	assert.Equal(t, int64(1), *d.CertCount)

	d, err = svc.Organizer(ctx, organizer)
	require.NoError(t, err)
	assert.Len(t, d.Events, 2)

	d, err = svc.Judge(ctx)
	require.NoError(t, err)
	require.Len(t, d.Events, 1)
	assert.Equal(t, uint(7), d.Events[0].ID)

	actor := domain.Actor{UserID: ada.ID, Role: domain.RoleParticipant}
	d, err = svc.Profile(ctx, actor)
	require.NoError(t, err)
	require.NotNil(t, d.User)
	assert.Equal(t, "Ada", d.User.Name)
	assert.Len(t, d.Teams, 1)
	assert.Len(t, d.Certificates, 1)

	d, err = svc.Participant(ctx, actor)
	require.NoError(t, err)
	assert.Nil(t, d.User)
	assert.Equal(t, domain.RoleParticipant, d.Role)
}
