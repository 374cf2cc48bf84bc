package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo UserRepository, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Password: "hashed", Avatar: models.GravatarURL(email)}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := seedUser(t, users, "Dev One", "dev1@example.com")

	profile := &models.Profile{
		UserID: user.ID,
		Status: "Senior Developer",
		Skills: []string{"Go", "PostgreSQL"},
		Social: models.Social{Twitter: "https://twitter.com/dev1"},
	}
	require.NoError(t, profiles.Create(ctx, profile))

	got, err := profiles.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Developer", got.Status)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Skills)
	assert.Equal(t, "https://twitter.com/dev1", got.Social.Twitter)
	assert.Equal(t, "Dev One", got.User.Name)
}

func TestProfileRepository_CreateDuplicateConflicts(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := seedUser(t, users, "Dev", "dup@example.com")

	require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: user.ID, Status: "Dev"}))

	err := profiles.Create(ctx, &models.Profile{UserID: user.ID, Status: "Dev again"})
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestProfileRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	profiles := NewProfileRepository(db)

	_, err := profiles.GetByUserID(context.Background(), 999)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestProfileRepository_SavePersistsEmbeddedLists(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := seedUser(t, users, "Dev", "lists@example.com")
	require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: user.ID, Status: "Dev"}))

	profile, err := profiles.GetForUpdate(ctx, user.ID)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	profile.Experience = []models.Experience{
		{ID: "exp-1", Title: "Engineer", Company: "Acme", From: now, Current: true},
	}
	require.NoError(t, profiles.Save(ctx, profile))

	got, err := profiles.GetForUpdate(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "exp-1", got.Experience[0].ID)
	assert.Equal(t, "Acme", got.Experience[0].Company)
	assert.True(t, got.Experience[0].Current)
	assert.Equal(t, profile.Version, got.Version)
}

func TestProfileRepository_SaveVersionConflict(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := seedUser(t, users, "Dev", "conflict@example.com")
	require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: user.ID, Status: "Dev"}))

	// Two readers load the same version.
	first, err := profiles.GetForUpdate(ctx, user.ID)
	require.NoError(t, err)
	second, err := profiles.GetForUpdate(ctx, user.ID)
	require.NoError(t, err)

	first.Bio = "first writer"
	require.NoError(t, profiles.Save(ctx, first))

	second.Bio = "second writer"
	err = profiles.Save(ctx, second)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The losing write must not clobber the winner.
	got, err := profiles.GetForUpdate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Bio)
}

func TestProfileRepository_DeleteByUserID(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	user := seedUser(t, users, "Dev", "del@example.com")
	require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: user.ID, Status: "Dev"}))

	require.NoError(t, profiles.DeleteByUserID(ctx, user.ID))

	_, err := profiles.GetByUserID(ctx, user.ID)
	require.Error(t, err)

	// Deleting again reports not found.
	err = profiles.DeleteByUserID(ctx, user.ID)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestProfileRepository_List(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	profiles := NewProfileRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := seedUser(t, users, "Dev", email)
		require.NoError(t, profiles.Create(ctx, &models.Profile{UserID: user.ID, Status: "Dev"}))
	}

	got, err := profiles.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	rest, err := profiles.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
