package service

import (
	"testing"

	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserServiceForTest(t *testing.T) (UserService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	return NewUserService(users, zap.NewNop()), users
}

func seedUser(t *testing.T, users *fakeUserRepo, name, email, password string) *models.User {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)
	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleUser}
	require.NoError(t, users.CreateUser(user))
	return user
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile_EmailConflict(t *testing.T) {
	svc, users := newUserServiceForTest(t)

	alice := seedUser(t, users, "Alice", "alice@example.com", "password123")
	seedUser(t, users, "Bob", "bob@example.com", "password123")

	_, err := svc.UpdateProfile(alice.ID, ProfileUpdate{Email: strPtr("bob@example.com")})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateProfile_SameEmailIsNotConflict(t *testing.T) {
	svc, users := newUserServiceForTest(t)

	alice := seedUser(t, users, "Alice", "alice@example.com", "password123")

	updated, err := svc.UpdateProfile(alice.ID, ProfileUpdate{
		Name:  strPtr("Alice Cooper"),
		Email: strPtr("Alice@Example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdateProfile_CannotEscalateRole(t *testing.T) {
	svc, users := newUserServiceForTest(t)

	alice := seedUser(t, users, "Alice", "alice@example.com", "password123")

	updated, err := svc.UpdateProfile(alice.ID, ProfileUpdate{Role: strPtr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role)
}

func TestUpdateUser_AdminCanChangeRole(t *testing.T) {
	svc, users := newUserServiceForTest(t)

	alice := seedUser(t, users, "Alice", "alice@example.com", "password123")

	updated, err := svc.UpdateUser(alice.ID, ProfileUpdate{Role: strPtr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	// Unknown role values are ignored
	updated, err = svc.UpdateUser(alice.ID, ProfileUpdate{Role: strPtr("superuser")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestChangePassword(t *testing.T) {
	svc, users := newUserServiceForTest(t)

	alice := seedUser(t, users, "Alice", "alice@example.com", "oldpassword")

	err := svc.ChangePassword(alice.ID, "wrongpassword", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(alice.ID, "oldpassword", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	require.NoError(t, svc.ChangePassword(alice.ID, "oldpassword", "newpassword"))

	stored, err := users.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.True(t, verifyPassword(stored.PasswordHash, "newpassword"))
	assert.False(t, verifyPassword(stored.PasswordHash, "oldpassword"))
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, _ := newUserServiceForTest(t)

	err := svc.DeleteUser(404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, _ := newUserServiceForTest(t)

	_, err := svc.GetUserByID(404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
