package repository

import (
	"context"
	"errors"

	"devlink/internal/cache"
	"devlink/internal/models"
	"devlink/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetForUpdate(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("create", "profiles")()

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Profile already exists for this user")
		}
		return models.NewStorageError(err)
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

// GetByUserID serves reads through the cache. Mutation paths must use
// GetForUpdate instead so the version check runs against fresh data.
func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(userID)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		return r.fetchByUserID(ctx, userID, &profile)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetForUpdate reads the profile directly from the database, bypassing the
// cache, for the read-modify-write cycle.
func (r *profileRepository) GetForUpdate(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.fetchByUserID(ctx, userID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) fetchByUserID(ctx context.Context, userID uint, dest *models.Profile) error {
	defer observability.TrackQuery("get_by_user_id", "profiles")()

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Profile", userID)
		}
		return models.NewStorageError(err)
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	defer observability.TrackQuery("list", "profiles")()

	var profiles []*models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return profiles, nil
}

// Save writes the whole profile row back, guarded by the version the profile
// was loaded with. Returns ErrVersionConflict when a concurrent writer got
// there first.
func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("save", "profiles")()

	prev := profile.Version
	profile.Version = prev + 1

	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ? AND version = ?", profile.ID, prev).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(profile)
	if res.Error != nil {
		profile.Version = prev
		return models.NewStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		profile.Version = prev
		observability.SaveConflicts.WithLabelValues("profiles").Inc()
		return ErrVersionConflict
	}

	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	defer observability.TrackQuery("delete", "profiles")()

	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{})
	if res.Error != nil {
		return models.NewStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", userID)
	}

	cache.InvalidateProfile(ctx, userID)
	return nil
}
