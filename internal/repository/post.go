package repository

import (
	"context"
	"errors"

	"devlink/internal/cache"
	"devlink/internal/models"
	"devlink/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Save(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewStorageError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

// GetByID serves reads through the cache. Mutation paths must use
// GetForUpdate instead so the version check runs against fresh data.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		return r.fetchByID(ctx, id, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetForUpdate reads the post directly from the database, bypassing the
// cache, for the read-modify-write cycle.
func (r *postRepository) GetForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.fetchByID(ctx, id, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) fetchByID(ctx context.Context, id uint, dest *models.Post) error {
	defer observability.TrackQuery("get_by_id", "posts")()

	if err := r.db.WithContext(ctx).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewStorageError(err)
	}
	return nil
}

// List returns posts newest-first.
func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	return posts, nil
}

// Save writes the whole post row back, guarded by the version the post was
// loaded with. Returns ErrVersionConflict when a concurrent writer got there
// first.
func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("save", "posts")()

	prev := post.Version
	post.Version = prev + 1

	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND version = ?", post.ID, prev).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(post)
	if res.Error != nil {
		post.Version = prev
		return models.NewStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		post.Version = prev
		observability.SaveConflicts.WithLabelValues("posts").Inc()
		return ErrVersionConflict
	}

	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}

	cache.InvalidatePost(ctx, id)
	return nil
}
