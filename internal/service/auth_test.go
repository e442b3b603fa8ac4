package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventforge/hackathon-api/internal/domain"
)

func TestAuthService_Signup(t *testing.T) {
	svc := NewAuthService(newFakeUsers())

	user, err := svc.Signup(context.Background(), domain.User{Email: "ada@example.com", Password: "s3cretpass", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleParticipant, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cretpass")))

	_, err = svc.Signup(context.Background(), domain.User{Email: "ada@example.com", Password: "x", Name: "Ada"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	_, err = svc.Signup(context.Background(), domain.User{Email: "root@example.com", Password: "x", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newFakeUsers())
	_, err := svc.Signup(context.Background(), domain.User{Email: "ada@example.com", Password: "s3cretpass", Role: domain.RoleMentor})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "ada@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMentor, user.Role)

	_, err = svc.Login(context.Background(), "ada@example.com", "nope")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "bob@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	users := newFakeUsers()
	svc := NewAuthService(users)

	created, err := svc.EnsureAdmin(context.Background(), "Root", "", "pw")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "rootpass1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, users.users["root@example.com"].Role)

	created, err = svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "rootpass1")
	require.NoError(t, err)
	assert.False(t, created)
}
