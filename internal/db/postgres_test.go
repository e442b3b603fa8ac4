package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/eventforge/hackathon-api/internal/config"
	"github.com/eventforge/hackathon-api/internal/db"
	"github.com/eventforge/hackathon-api/internal/domain"
	"github.com/eventforge/hackathon-api/internal/repository"
	"github.com/eventforge/hackathon-api/internal/repository/dao"
)

// startPostgres runs a throwaway postgres container. It skips when docker is not reachable.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=hackathon",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=hackathon",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(180)

	conf := &config.PostgresConfig{
		Host:     "localhost",
		Port:     resource.GetPort("5432/tcp"),
		User:     "hackathon",
		Password: "secret",
		DB:       "hackathon",
		SSLMode:  "disable",
	}

	var gdb *gorm.DB
	pool.MaxWait = 2 * time.Minute
	require.NoError(t, pool.Retry(func() error {
		var err error
		gdb, err = db.OpenPostgres(conf)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}))

	return gdb
}

func TestPostgres_CertificateWorkflow(t *testing.T) {
	gdb := startPostgres(t)
	ctx := context.Background()

	users := repository.NewUserRepository(dao.NewUserDAO(gdb))
	events := repository.NewEventRepository(dao.NewEventDAO(gdb))
	teams := repository.NewTeamRepository(dao.NewTeamDAO(gdb))
	certs := repository.NewCertificateRepository(dao.NewCertificateDAO(gdb))

	org, err := users.Create(ctx, domain.User{Email: "org@example.com", Password: "x", Name: "Org", Role: domain.RoleOrganizer})
	require.NoError(t, err)
	ada, err := users.Create(ctx, domain.User{Email: "ada@example.com", Password: "x", Name: "Ada", Role: domain.RoleParticipant})
	require.NoError(t, err)
	grace, err := users.Create(ctx, domain.User{Email: "grace@example.com", Password: "x", Name: "Grace", Role: domain.RoleParticipant})
	require.NoError(t, err)

	_, err = users.Create(ctx, domain.User{Email: "ada@example.com", Password: "x", Name: "Ada again"})
	assert.ErrorIs(t, err, repository.ErrUserEmailExists)

	event, err := events.Create(ctx, domain.Event{
		Title:       "Spring Hack",
		Description: "48h",
		StartDate:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		Rules:       []string{"be kind"},
		Status:      domain.StatusOngoing,
		OrganizerID: org.ID,
		Modules:     domain.DefaultModules(),
		CertificateTemplate: &domain.CertificateTemplate{
			Elements: []domain.Element{domain.Element{Content: "{{RECIPIENT_NAME}}", X: 100, Y: 200}.WithDefaults()},
		},
	})
	require.NoError(t, err)

	found, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, found.CertificateTemplate)
	assert.Equal(t, "{{RECIPIENT_NAME}}", found.CertificateTemplate.Elements[0].Content)
	assert.Equal(t, []string{"be kind"}, found.Rules)
	assert.True(t, found.Modules.Certificates)
	require.NotNil(t, found.Organizer)
	assert.Equal(t, "Org", found.Organizer.Name)

	listed, err := events.FindAll(ctx, []domain.EventStatus{domain.StatusOngoing, domain.StatusCompleted})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	listed, err = events.FindAll(ctx, []domain.EventStatus{domain.StatusDraft})
	require.NoError(t, err)
	assert.Empty(t, listed)

	team, err := teams.Create(ctx, domain.Team{EventID: event.ID, LeaderID: &ada.ID, Name: "Rustaceans", MaxMembers: 4})
	require.NoError(t, err)
	require.NoError(t, teams.AddMember(ctx, team.ID, grace.ID))

	eventTeams, err := teams.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	recipients := domain.Recipients(eventTeams)
	require.Len(t, recipients, 2)

	issued := time.Now()
	batch := make([]domain.Certificate, 0, len(recipients))
	for _, r := range recipients {
		id := domain.NewCertificateID(event.ID, r.UserID, issued)
		batch = append(batch, domain.Certificate{
			EventID:        event.ID,
			RecipientName:  r.Name,
			RecipientEmail: r.Email,
			Role:           r.Role,
			CertificateURL: "/certificates/" + r.Name + ".pdf",
			CertificateID:  &id,
		})
	}

	n, err := certs.CreateBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = certs.CreateBatch(ctx, batch)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := certs.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	verified, err := certs.FindByCertificateID(ctx, *batch[0].CertificateID)
	require.NoError(t, err)
	assert.Equal(t, batch[0].RecipientName, verified.RecipientName)

	urls, err := certs.URLs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/certificates/Ada.pdf", "/certificates/Grace.pdf"}, urls)

	require.NoError(t, events.Delete(ctx, event.ID))
	stored, err = certs.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
