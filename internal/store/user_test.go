package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"inventory-service/internal/model"
)

func TestAuthenticateAdmin(t *testing.T) {
	s := newTestStore(t)

	user, err := s.Authenticate(model.AdminUsername, testAdminPassword)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, user.Role)
	require.ElementsMatch(t, model.AllPermissions, user.PermissionList())
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateUser(UserInput{Username: "clerk", Password: "pw123", CreatedBy: "admin"})
	require.NoError(t, err)

	_, unknownErr := s.Authenticate("ghost", "whatever")
	_, wrongErr := s.Authenticate("clerk", "wrong")
	require.Equal(t, KindUnauthorized, KindOf(unknownErr))
	require.Equal(t, KindUnauthorized, KindOf(wrongErr))
	require.Equal(t, unknownErr.Error(), wrongErr.Error())

	// Deactivated accounts fail the same way
	active := false
	_, err = s.UpdateUser("clerk", UserUpdate{Active: &active, ModifiedBy: "admin"})
	require.NoError(t, err)
	_, inactiveErr := s.Authenticate("clerk", "pw123")
	require.Equal(t, KindUnauthorized, KindOf(inactiveErr))
	require.Equal(t, unknownErr.Error(), inactiveErr.Error())
}

func TestCreateUserDefaultsAndConflict(t *testing.T) {
	s := newTestStore(t)

	user, err := s.CreateUser(UserInput{
		Username:    "clerk",
		Password:    "pw123",
		Permissions: []string{model.PermView, model.PermAdd},
		CreatedBy:   "admin",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, user.Role)
	require.True(t, user.Active)
	require.NotEqual(t, "pw123", user.Password)
	require.ElementsMatch(t, []string{model.PermView, model.PermAdd}, user.PermissionList())
	require.True(t, user.HasPermission(model.PermAdd))
	require.False(t, user.HasPermission(model.PermDelete))

	_, err = s.CreateUser(UserInput{Username: "clerk", Password: "other"})
	require.Equal(t, KindConflict, KindOf(err))

	_, err = s.CreateUser(UserInput{Username: "", Password: "pw"})
	require.Equal(t, KindInvalid, KindOf(err))
}

func TestUpdateUserStampsModification(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateUser(UserInput{Username: "clerk", Password: "pw123", CreatedBy: "admin"})
	require.NoError(t, err)

	perms := []string{model.PermView, model.PermEdit}
	_, err = s.UpdateUser("clerk", UserUpdate{Permissions: &perms, ModifiedBy: "admin"})
	require.NoError(t, err)

	user, err := s.GetUser("clerk")
	require.NoError(t, err)
	require.ElementsMatch(t, perms, user.PermissionList())
	require.NotNil(t, user.ModifiedAt)
	require.Equal(t, "admin", user.ModifiedBy)

	_, err = s.UpdateUser("ghost", UserUpdate{Permissions: &perms})
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestAdminAccountCannotBeDeleted(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteUser(model.AdminUsername)
	require.Error(t, err)
	require.Equal(t, KindInUse, KindOf(err))

	_, err = s.GetUser(model.AdminUsername)
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateUser(UserInput{Username: "clerk", Password: "pw123"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser("clerk"))
	_, err = s.GetUser("clerk")
	require.Equal(t, KindNotFound, KindOf(err))

	err = s.DeleteUser("clerk")
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestChangePassword(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateUser(UserInput{Username: "clerk", Password: "pw123"})
	require.NoError(t, err)

	err = s.ChangePassword("clerk", "wrong", "newpw")
	require.Equal(t, KindUnauthorized, KindOf(err))

	require.NoError(t, s.ChangePassword("clerk", "pw123", "newpw"))

	_, err = s.Authenticate("clerk", "pw123")
	require.Error(t, err)
	_, err = s.Authenticate("clerk", "newpw")
	require.NoError(t, err)
}
