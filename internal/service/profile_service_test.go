package service

import (
	"context"
	"testing"
	"time"

	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "plain", raw: "Go,SQL", want: []string{"Go", "SQL"}},
		{name: "whitespace trimmed", raw: " Go , SQL ,  Docker", want: []string{"Go", "SQL", "Docker"}},
		{name: "empties dropped", raw: "Go,,  ,SQL,", want: []string{"Go", "SQL"}},
		{name: "duplicates keep first position", raw: "Go,SQL,Go,Docker,SQL", want: []string{"Go", "SQL", "Docker"}},
		{name: "empty input", raw: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkills(tt.raw))
		})
	}
}

func TestProfileService_UpsertProfile_Validation(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(noopProfileRepo(), noopUserRepo())
	ctx := context.Background()

	_, err := svc.UpsertProfile(ctx, UpsertProfileInput{UserID: 1, Skills: "Go"})
	assertValidationError(t, err)

	_, err = svc.UpsertProfile(ctx, UpsertProfileInput{UserID: 1, Status: "Dev", Skills: " , ,"})
	assertValidationError(t, err)
}

func TestProfileService_UpsertProfile_UpdatesExisting(t *testing.T) {
	t.Parallel()

	stored := &models.Profile{
		ID:     1,
		UserID: 1,
		Status: "Old Status",
		Experience: []models.Experience{
			{ID: "exp-1", Title: "Kept"},
		},
	}
	profiles := noopProfileRepo()
	profiles.getForUpdateFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		clone := *stored
		return &clone, nil
	}
	profiles.saveFn = func(_ context.Context, p *models.Profile) error {
		stored = p
		return nil
	}

	svc := NewProfileService(profiles, noopUserRepo())
	got, err := svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID:  1,
		Status:  "Senior Developer",
		Skills:  "Go, SQL",
		Bio:     strPtr("hi"),
		Twitter: strPtr("https://twitter.com/dev"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Developer", got.Status)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Equal(t, "hi", got.Bio)
	assert.Equal(t, "https://twitter.com/dev", got.Social.Twitter)
	// Embedded lists survive a scalar upsert.
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "exp-1", got.Experience[0].ID)
}

func TestProfileService_UpsertProfile_OmittedFieldsRetained(t *testing.T) {
	t.Parallel()

	stored := &models.Profile{
		ID:             1,
		UserID:         1,
		Company:        "Acme",
		Bio:            "veteran gopher",
		GithubUsername: "gopher",
		Status:         "Old Status",
		Skills:         []string{"Go"},
		Social:         models.Social{Twitter: "https://twitter.com/dev"},
	}
	profiles := noopProfileRepo()
	profiles.getForUpdateFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		clone := *stored
		return &clone, nil
	}
	profiles.saveFn = func(_ context.Context, p *models.Profile) error {
		stored = p
		return nil
	}

	svc := NewProfileService(profiles, noopUserRepo())
	got, err := svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID: 1,
		Status: "Senior Developer",
		Skills: "Go, SQL",
	})
	require.NoError(t, err)

	assert.Equal(t, "Senior Developer", got.Status)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	// Fields absent from the input keep their stored values.
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "veteran gopher", got.Bio)
	assert.Equal(t, "gopher", got.GithubUsername)
	assert.Equal(t, "https://twitter.com/dev", got.Social.Twitter)

	// An explicit empty string still clears a field.
	got, err = svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID:  1,
		Status:  "Senior Developer",
		Skills:  "Go, SQL",
		Company: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "", got.Company)
	assert.Equal(t, "veteran gopher", got.Bio)
}

func TestProfileService_UpsertProfile_CreatesWhenMissing(t *testing.T) {
	t.Parallel()

	profiles := noopProfileRepo()
	profiles.getForUpdateFn = func(_ context.Context, userID uint) (*models.Profile, error) {
		return nil, models.NewNotFoundError("Profile", userID)
	}
	var created *models.Profile
	profiles.createFn = func(_ context.Context, p *models.Profile) error {
		p.ID = 5
		created = p
		return nil
	}
	profiles.getByUserIDFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		return created, nil
	}

	svc := NewProfileService(profiles, noopUserRepo())
	got, err := svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID: 2,
		Status: "Junior Developer",
		Skills: "HTML,CSS",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(2), created.UserID)
	assert.Equal(t, uint(5), got.ID)
	assert.Equal(t, []string{"HTML", "CSS"}, got.Skills)
}

func TestProfileService_AddExperience(t *testing.T) {
	t.Parallel()

	stored := &models.Profile{ID: 1, UserID: 1, Experience: []models.Experience{{ID: "old", Title: "Earlier"}}}
	profiles := noopProfileRepo()
	profiles.getForUpdateFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		clone := *stored
		clone.Experience = append([]models.Experience(nil), stored.Experience...)
		return &clone, nil
	}
	profiles.saveFn = func(_ context.Context, p *models.Profile) error {
		stored = p
		return nil
	}

	svc := NewProfileService(profiles, noopUserRepo())
	got, err := svc.AddExperience(context.Background(), AddExperienceInput{
		UserID:  1,
		Title:   "Engineer",
		Company: "Acme",
		From:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Current: true,
	})
	require.NoError(t, err)
	require.Len(t, got.Experience, 2)
	// New entry is prepended with a fresh id.
	assert.NotEmpty(t, got.Experience[0].ID)
	assert.NotEqual(t, "old", got.Experience[0].ID)
	assert.Equal(t, "Engineer", got.Experience[0].Title)
	assert.Equal(t, "old", got.Experience[1].ID)
}

func TestProfileService_AddExperience_Validation(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(noopProfileRepo(), noopUserRepo())
	ctx := context.Background()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	tests := []struct {
		name  string
		input AddExperienceInput
	}{
		{name: "missing title", input: AddExperienceInput{UserID: 1, Company: "Acme", From: from}},
		{name: "missing company", input: AddExperienceInput{UserID: 1, Title: "Engineer", From: from}},
		{name: "missing from", input: AddExperienceInput{UserID: 1, Title: "Engineer", Company: "Acme"}},
		{name: "current with end date", input: AddExperienceInput{UserID: 1, Title: "Engineer", Company: "Acme", From: from, Current: true, To: &to}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddExperience(ctx, tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestProfileService_RemoveExperience(t *testing.T) {
	t.Parallel()

	stored := &models.Profile{ID: 1, UserID: 1, Experience: []models.Experience{
		{ID: "exp-2", Title: "Newest"},
		{ID: "exp-1", Title: "Oldest"},
	}}
	profiles := noopProfileRepo()
	profiles.getForUpdateFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		clone := *stored
		clone.Experience = append([]models.Experience(nil), stored.Experience...)
		return &clone, nil
	}
	profiles.saveFn = func(_ context.Context, p *models.Profile) error {
		stored = p
		return nil
	}

	svc := NewProfileService(profiles, noopUserRepo())
	ctx := context.Background()

	// Removing a missing entry is an explicit not found, never a silent no-op.
	_, err := svc.RemoveExperience(ctx, 1, "no-such")
	assertAppErrorCode(t, err, models.CodeNotFound)

	got, err := svc.RemoveExperience(ctx, 1, "exp-1")
	require.NoError(t, err)
	require.Len(t, got.Experience, 1)
	assert.Equal(t, "exp-2", got.Experience[0].ID)
}

func TestProfileService_AddAndRemoveEducation(t *testing.T) {
	t.Parallel()

	stored := &models.Profile{ID: 1, UserID: 1}
	profiles := noopProfileRepo()
	profiles.getForUpdateFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		clone := *stored
		clone.Education = append([]models.Education(nil), stored.Education...)
		return &clone, nil
	}
	profiles.saveFn = func(_ context.Context, p *models.Profile) error {
		stored = p
		return nil
	}

	svc := NewProfileService(profiles, noopUserRepo())
	ctx := context.Background()

	got, err := svc.AddEducation(ctx, AddEducationInput{
		UserID:       1,
		School:       "State University",
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got.Education, 1)
	eduID := got.Education[0].ID
	assert.NotEmpty(t, eduID)

	_, err = svc.RemoveEducation(ctx, 1, "bogus")
	assertAppErrorCode(t, err, models.CodeNotFound)

	got, err = svc.RemoveEducation(ctx, 1, eduID)
	require.NoError(t, err)
	assert.Empty(t, got.Education)
}

func TestProfileService_AddEducation_Validation(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(noopProfileRepo(), noopUserRepo())
	_, err := svc.AddEducation(context.Background(), AddEducationInput{UserID: 1, School: "X", Degree: "BSc"})
	assertValidationError(t, err)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	t.Parallel()

	var deleted uint
	users := noopUserRepo()
	users.deleteCascadeFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}

	svc := NewAccountService(users)
	require.NoError(t, svc.DeleteAccount(context.Background(), 12))
	assert.Equal(t, uint(12), deleted)
}
