package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newAuthEnv(t *testing.T) (*AuthService, *memBackend, *fakeCodeStore, *captureSender) {
	t.Helper()
	backend := newMemBackend()
	codes := newFakeCodeStore()
	sender := &captureSender{}
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			ResetCodeTTLMinutes:   5,
			BcryptCost:            4,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo: &fakeUserRepo{b: backend},
		Codes:    codes,
		Sender:   sender,
		Logger:   zap.NewNop(),
	})
	return svc, backend, codes, sender
}

func TestRegisterClientAndLogin(t *testing.T) {
	svc, _, _, _ := newAuthEnv(t)

	user, token, _, err := svc.RegisterClient(context.Background(), "Dana", "dana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	_, _, _, err = svc.RegisterClient(context.Background(), "Dana Again", "dana@example.com", "other")
	assertCode(t, err, "CONFLICT")

	loggedIn, token, _, err := svc.Login(context.Background(), "dana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.Login(context.Background(), "dana@example.com", "wrong")
	assertCode(t, err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestLoginInactiveUser(t *testing.T) {
	svc, backend, _, _ := newAuthEnv(t)

	user, _, _, err := svc.RegisterClient(context.Background(), "Sam", "sam@example.com", "pass1234")
	require.NoError(t, err)

	backend.mu.Lock()
	backend.users[user.ID].Active = false
	backend.mu.Unlock()

	_, _, _, err = svc.Login(context.Background(), "sam@example.com", "pass1234")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, codes, sender := newAuthEnv(t)

	_, _, _, err := svc.RegisterClient(context.Background(), "Kim", "kim@example.com", "original")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "kim@example.com"))

	emails := sender.all()
	require.Len(t, emails, 1)
	assert.Equal(t, "kim@example.com", emails[0].To)

	code, err := codes.Get(context.Background(), "kim@example.com")
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.True(t, strings.Contains(emails[0].Body, code))

	err = svc.ResetPassword(context.Background(), "kim@example.com", "000000", "newpass")
	if code != "000000" {
		assertCode(t, err, "UNAUTHORIZED")
	}

	require.NoError(t, svc.ResetPassword(context.Background(), "kim@example.com", code, "newpass"))

	// the code is consumed; replay fails
	err = svc.ResetPassword(context.Background(), "kim@example.com", code, "again")
	assertCode(t, err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(context.Background(), "kim@example.com", "original")
	assertCode(t, err, "UNAUTHORIZED")
	_, _, _, err = svc.Login(context.Background(), "kim@example.com", "newpass")
	require.NoError(t, err)
}

func TestPasswordResetUnknownEmail(t *testing.T) {
	svc, _, _, sender := newAuthEnv(t)

	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assertCode(t, err, "NOT_FOUND")
	assert.Empty(t, sender.all())
}

func TestChangePassword(t *testing.T) {
	svc, _, _, _ := newAuthEnv(t)

	user, _, _, err := svc.RegisterClient(context.Background(), "Lee", "lee@example.com", "oldpass")
	require.NoError(t, err)
	actor := domain.ActorContext{UserID: user.ID, Role: user.Role}

	err = svc.ChangePassword(context.Background(), actor, "wrongpass", "newpass")
	assertCode(t, err, "UNAUTHORIZED")

	require.NoError(t, svc.ChangePassword(context.Background(), actor, "oldpass", "newpass"))

	_, _, _, err = svc.Login(context.Background(), "lee@example.com", "newpass")
	require.NoError(t, err)
}
