package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/config"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

func authFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	hash, err := auth.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	users.users["u-1"] = domain.User{
		ID:           "u-1",
		Username:     "supervisor1",
		PasswordHash: hash,
		Role:         &domain.RoleRecord{ID: 3, Name: string(domain.RoleSupervisor)},
	}
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15}}
	return NewAuthService(cfg, users), users
}

func TestLogin(t *testing.T) {
	svc, _ := authFixture(t)

	user, token, _, err := svc.Login(context.Background(), "supervisor1", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, domain.RoleSupervisor, claims.Role)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := authFixture(t)

	_, _, _, err := svc.Login(context.Background(), "nobody", "whatever")
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, _, _, err := svc.Login(context.Background(), "supervisor1", "wrong")
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
