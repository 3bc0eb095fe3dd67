package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

func newUserService() (*service.UserService, *fakeUserRepo, *fakeRoleRepo) {
	userRepo := &fakeUserRepo{users: map[string]*model.User{}}
	roleRepo := &fakeRoleRepo{roles: map[string]*model.Role{
		"r1": {ID: "r1", Name: "agent"},
	}}
	return &service.UserService{UserRepo: userRepo, RoleRepo: roleRepo}, userRepo, roleRepo
}

func TestUserCreateHashesPasswordAndLowercasesEmail(t *testing.T) {
	svc, _, _ := newUserService()

	user, err := svc.Create(service.UserInput{
		FirstName: "Alice",
		Email:     "Alice@Example.COM",
		Password:  "s3cret",
		RoleID:    "r1",
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret", user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("s3cret")))
	assert.Equal(t, "admin-1", user.CreatedBy)
}

func TestUserCreateValidation(t *testing.T) {
	svc, repo, _ := newUserService()

	cases := []service.UserInput{
		{Email: "no-at-sign", Password: "x", RoleID: "r1"},
		{Email: "", Password: "x", RoleID: "r1"},
		{Email: "a@b.com", Password: "", RoleID: "r1"},
		{Email: "a@b.com", Password: "x", RoleID: ""},
	}
	for _, input := range cases {
		_, err := svc.Create(input, "admin-1")
		var vErr *appErrors.ValidationError
		assert.True(t, errors.As(err, &vErr), "input %+v should fail validation", input)
	}
	assert.Empty(t, repo.created)
}

func TestUserCreateRequiresExistingRole(t *testing.T) {
	svc, _, _ := newUserService()

	_, err := svc.Create(service.UserInput{Email: "a@b.com", Password: "x", RoleID: "ghost"}, "admin-1")

	var nfErr *appErrors.NotFoundError
	require.True(t, errors.As(err, &nfErr))
}

func TestUserUpdateAppliesPartialInput(t *testing.T) {
	svc, repo, _ := newUserService()
	repo.users["u1"] = &model.User{ID: "u1", FirstName: "Alice", Email: "a@b.com", RoleID: "r1", Status: "active"}

	user, err := svc.Update("u1", service.UserInput{FirstName: "Alicia", Status: "disabled"}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, "Alicia", user.FirstName)
	assert.Equal(t, "disabled", user.Status)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "admin-1", user.ModifiedBy)
}

func TestUserUpdateValidatesNewRole(t *testing.T) {
	svc, repo, _ := newUserService()
	repo.users["u1"] = &model.User{ID: "u1", Email: "a@b.com", RoleID: "r1"}

	_, err := svc.Update("u1", service.UserInput{RoleID: "ghost"}, "admin-1")

	var nfErr *appErrors.NotFoundError
	require.True(t, errors.As(err, &nfErr))
}
