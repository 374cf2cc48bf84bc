package service

import (
	"context"
	"errors"
	"testing"

	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	getForUpdateFn func(context.Context, uint) (*models.Post, error)
	listFn         func(context.Context, int, int) ([]*models.Post, error)
	saveFn         func(context.Context, *models.Post) error
	deleteFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	return s.getForUpdateFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) Save(ctx context.Context, post *models.Post) error {
	return s.saveFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:       func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:      func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getForUpdateFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn:         func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		saveFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	createFn         func(context.Context, *models.Profile) error
	getByUserIDFn    func(context.Context, uint) (*models.Profile, error)
	getForUpdateFn   func(context.Context, uint) (*models.Profile, error)
	listFn           func(context.Context, int, int) ([]*models.Profile, error)
	saveFn           func(context.Context, *models.Profile) error
	deleteByUserIDFn func(context.Context, uint) error
}

func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetForUpdate(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getForUpdateFn(ctx, userID)
}
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *profileRepoStub) Save(ctx context.Context, profile *models.Profile) error {
	return s.saveFn(ctx, profile)
}
func (s *profileRepoStub) DeleteByUserID(ctx context.Context, userID uint) error {
	return s.deleteByUserIDFn(ctx, userID)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn:         func(_ context.Context, _ *models.Profile) error { return nil },
		getByUserIDFn:    func(_ context.Context, _ uint) (*models.Profile, error) { return &models.Profile{}, nil },
		getForUpdateFn:   func(_ context.Context, _ uint) (*models.Profile, error) { return &models.Profile{}, nil },
		listFn:           func(_ context.Context, _, _ int) ([]*models.Profile, error) { return nil, nil },
		saveFn:           func(_ context.Context, _ *models.Profile) error { return nil },
		deleteByUserIDFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	deleteCascadeFn func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) DeleteCascade(ctx context.Context, id uint) error {
	return s.deleteCascadeFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Test User", Avatar: "https://example.com/a.png"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteCascadeFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppErrorCode asserts err is an AppError carrying the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}
