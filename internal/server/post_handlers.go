package server

import (
	"devlink/internal/models"
	"devlink/internal/service"
	"devlink/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Text string `json:"text" validate:"required"`
}

type addCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var req createPostRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if valErr := validation.Struct(req); valErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, valErr)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	pagination := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.UserContext(), pagination.Limit, pagination.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  pagination.Limit,
		"offset": pagination.Offset,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id.  Only the post's author may
// delete it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.postService.DeletePost(c.UserContext(), userID, postID); delErr != nil {
		return models.RespondWithError(c, models.StatusForError(delErr), delErr)
	}

	return c.JSON(fiber.Map{
		"message": "Post removed",
	})
}

// LikePost handles PUT /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.postService.LikePost(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(likes)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.postService.UnlikePost(c.UserContext(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(likes)
}

// AddComment handles POST /api/posts/:id/comments
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req addCommentRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if valErr := validation.Struct(req); valErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, valErr)
	}

	comments, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comments)
}

// RemoveComment handles DELETE /api/posts/:id/comments/:commentId.  Only the
// comment's author may remove it.
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	commentID, err := s.parseEntryID(c, "commentId")
	if err != nil {
		return nil
	}

	comments, err := s.postService.RemoveComment(c.UserContext(), userID, postID, commentID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(comments)
}
