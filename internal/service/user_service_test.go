package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dispatch-service/internal/auth"
	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/pkg/util"
)

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func userFixture() (*UserService, *fakeUserRepo) {
	users := newFakeUserRepo()
	roles := &fakeRoleRepo{roles: map[int64]domain.RoleRecord{
		1: {ID: 1, Name: string(domain.RoleOperator)},
		2: {ID: 2, Name: string(domain.RoleDispatcher)},
	}}
	return NewUserService(users, roles, 4), users
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, users := userFixture()

	created, err := svc.Create(context.Background(), UserCreateInput{
		Username: "operator1",
		FullName: "Ana Gomez",
		Password: "sup3rsecret",
		RoleID:   1,
	})
	require.NoError(t, err)

	stored := users.users[created.ID]
	assert.NotEqual(t, "sup3rsecret", stored.PasswordHash)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "sup3rsecret"))
	assert.Equal(t, domain.RoleOperator, created.RoleName())
}

func TestCreateUserUnknownRole(t *testing.T) {
	svc, users := userFixture()

	_, err := svc.Create(context.Background(), UserCreateInput{
		Username: "x",
		FullName: "X",
		Password: "password1",
		RoleID:   99,
	})
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Empty(t, users.users)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, _ := userFixture()

	_, err := svc.Create(context.Background(), UserCreateInput{
		Username: "operator1", FullName: "A", Password: "password1", RoleID: 1,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), UserCreateInput{
		Username: "operator1", FullName: "B", Password: "password2", RoleID: 1,
	})
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc, users := userFixture()
	created, err := svc.Create(context.Background(), UserCreateInput{
		Username: "dispatcher1", FullName: "Luis", Password: "oldpassword", RoleID: 2,
	})
	require.NoError(t, err)
	oldHash := users.users[created.ID].PasswordHash

	newPassword := "newpassword"
	_, err = svc.Update(context.Background(), created.ID, UserUpdateInput{Password: &newPassword})
	require.NoError(t, err)

	stored := users.users[created.ID]
	assert.NotEqual(t, oldHash, stored.PasswordHash)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "newpassword"))
}

func TestDeleteUserUnknown(t *testing.T) {
	svc, _ := userFixture()

	err := svc.Delete(context.Background(), "missing")
	var domainErr *util.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
