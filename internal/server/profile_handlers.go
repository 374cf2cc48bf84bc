package server

import (
	"strings"
	"time"

	"devlink/internal/models"
	"devlink/internal/service"
	"devlink/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// upsertProfileRequest is a partial update: nil pointer fields were omitted
// from the request body and keep their stored values.
type upsertProfileRequest struct {
	Company        *string `json:"company" validate:"omitempty,max=100"`
	Website        *string `json:"website" validate:"omitempty,url"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	Status         string  `json:"status" validate:"required,max=100"`
	Skills         string  `json:"skills" validate:"required"`
	GithubUsername *string `json:"githubusername" validate:"omitempty,max=100"`
	YouTube        *string `json:"youtube" validate:"omitempty,url"`
	Twitter        *string `json:"twitter" validate:"omitempty,url"`
	Facebook       *string `json:"facebook" validate:"omitempty,url"`
	LinkedIn       *string `json:"linkedin" validate:"omitempty,url"`
	Instagram      *string `json:"instagram" validate:"omitempty,url"`
}

// requestDate accepts both RFC 3339 timestamps and bare dates like
// "2020-01-01" in request bodies.
type requestDate struct {
	time.Time
}

func (d *requestDate) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d *requestDate) timeOrNil() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	return &d.Time
}

type addExperienceRequest struct {
	Title       string       `json:"title" validate:"required,max=100"`
	Company     string       `json:"company" validate:"required,max=100"`
	Location    string       `json:"location" validate:"max=100"`
	From        requestDate  `json:"from"`
	To          *requestDate `json:"to"`
	Current     bool         `json:"current"`
	Description string       `json:"description" validate:"max=500"`
}

type addEducationRequest struct {
	School       string       `json:"school" validate:"required,max=100"`
	Degree       string       `json:"degree" validate:"required,max=100"`
	FieldOfStudy string       `json:"fieldofstudy" validate:"required,max=100"`
	From         requestDate  `json:"from"`
	To           *requestDate `json:"to"`
	Current      bool         `json:"current"`
	Description  string       `json:"description" validate:"max=500"`
}

// ListProfiles handles GET /api/profiles
func (s *Server) ListProfiles(c *fiber.Ctx) error {
	pagination := parsePagination(c, 20)

	profiles, err := s.profileService.ListProfiles(c.UserContext(), pagination.Limit, pagination.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"profiles": profiles,
		"limit":    pagination.Limit,
		"offset":   pagination.Offset,
	})
}

// GetProfileByUserID handles GET /api/profiles/user/:userId
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// GetGithubRepos handles GET /api/profiles/github/:username.
// The server proxies the GitHub API so the client never needs a token.
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	if !s.flags.Enabled("github_repos", 0) {
		return models.RespondWithError(c, fiber.StatusNotFound, &models.AppError{
			Code:    models.CodeNotFound,
			Message: "Github repositories are not available",
		})
	}

	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid username"))
	}

	repos, err := s.github.ListRepos(c.UserContext(), username)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(repos)
}

// UpsertProfile handles POST /api/profiles.  Creates the caller's profile or
// updates the fields present in the body; omitted fields keep their stored
// values and experience and education are left untouched.
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var req upsertProfileRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if valErr := validation.Struct(req); valErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, valErr)
	}

	profile, err := s.profileService.UpsertProfile(c.UserContext(), service.UpsertProfileInput{
		UserID:         userID,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		Skills:         req.Skills,
		GithubUsername: req.GithubUsername,
		YouTube:        req.YouTube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		LinkedIn:       req.LinkedIn,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profiles.  Removes the caller's user,
// profile and posts in one transaction.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	if delErr := s.accountService.DeleteAccount(c.UserContext(), userID); delErr != nil {
		return models.RespondWithError(c, models.StatusForError(delErr), delErr)
	}

	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}

// AddExperience handles PUT /api/profiles/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var req addExperienceRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if valErr := validation.Struct(req); valErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, valErr)
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), service.AddExperienceInput{
		UserID:      userID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From.Time,
		To:          req.To.timeOrNil(),
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profiles/experience/:expId
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	expID, err := s.parseEntryID(c, "expId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.RemoveExperience(c.UserContext(), userID, expID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// AddEducation handles PUT /api/profiles/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	var req addEducationRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if valErr := validation.Struct(req); valErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, valErr)
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), service.AddEducationInput{
		UserID:       userID,
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From.Time,
		To:           req.To.timeOrNil(),
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profiles/education/:eduId
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	userID, err := s.currentUserID(c)
	if err != nil {
		return nil
	}

	eduID, err := s.parseEntryID(c, "eduId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.RemoveEducation(c.UserContext(), userID, eduID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(profile)
}
