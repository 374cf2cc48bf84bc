package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devlink/internal/models"
	"devlink/internal/observability"
	"devlink/internal/repository"

	"github.com/google/uuid"
)

const maxPostTextLen = 50000

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	UserID uint
	Text   string
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost creates a post, snapshotting the author's name and avatar onto
// the post row.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PostService", "CreatePost")
	defer span.End()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 50000 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   text,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns posts newest-first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset)
}

// GetPost returns a single post by id.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes a post. Only the post's author may delete it.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	ctx, span := observability.TraceServiceMethod(ctx, "PostService", "DeletePost")
	defer span.End()

	post, err := s.postRepo.GetForUpdate(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("User not authorized")
	}
	return s.postRepo.Delete(ctx, postID)
}

// LikePost records the caller's like on the post and returns the updated
// like list. Liking a post twice is a conflict.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) ([]models.Like, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PostService", "LikePost")
	defer span.End()

	post, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		if p.LikeIndex(userID) >= 0 {
			return models.NewConflictError("Post already liked")
		}
		p.Likes = append([]models.Like{{UserID: userID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// UnlikePost removes the caller's like and returns the updated like list.
// Unliking a post that was never liked is a conflict.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) ([]models.Like, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PostService", "UnlikePost")
	defer span.End()

	post, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		idx := p.LikeIndex(userID)
		if idx < 0 {
			return models.NewConflictError("Post has not yet been liked")
		}
		p.Likes = append(p.Likes[:idx], p.Likes[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment prepends a comment to the post, snapshotting the commenter's
// name and avatar, and returns the updated comment list.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) ([]models.Comment, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PostService", "AddComment")
	defer span.End()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 50000 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	post, err := s.mutatePost(ctx, in.PostID, func(p *models.Post) error {
		p.Comments = append([]models.Comment{comment}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes the comment with the given id from the post and
// returns the updated comment list. The comment is located by its own id, and
// only its author may remove it.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID uint, commentID string) ([]models.Comment, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "PostService", "RemoveComment")
	defer span.End()

	post, err := s.mutatePost(ctx, postID, func(p *models.Post) error {
		idx := p.CommentIndex(commentID)
		if idx < 0 {
			return models.NewNotFoundError("Comment", commentID)
		}
		if p.Comments[idx].UserID != userID {
			return models.NewForbiddenError("User not authorized")
		}
		p.Comments = append(p.Comments[:idx], p.Comments[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// mutatePost runs the read-modify-write cycle with bounded retries on version
// conflicts. The mutate callback must be safe to re-run against a freshly
// loaded post.
func (s *PostService) mutatePost(ctx context.Context, postID uint, mutate func(*models.Post) error) (*models.Post, error) {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		post, err := s.postRepo.GetForUpdate(ctx, postID)
		if err != nil {
			return nil, err
		}

		if err := mutate(post); err != nil {
			return nil, err
		}

		err = s.postRepo.Save(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, models.NewConflictError("Post was modified concurrently, please retry")
}
