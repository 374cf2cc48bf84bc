// Package service implements the application's business logic on top of the
// repository layer.
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

// maxSaveRetries bounds the reload-reapply loop on version conflicts before
// the mutation is surfaced as a conflict to the caller.
const maxSaveRetries = 3

type ProfileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

// UpsertProfileInput carries a partial profile update. Status and Skills are
// always required; the pointer fields are only written when non-nil, so an
// omitted field keeps its stored value and an explicit empty string clears it.
type UpsertProfileInput struct {
	UserID         uint
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         string
	Skills         string
	GithubUsername *string
	YouTube        *string
	Twitter        *string
	Facebook       *string
	LinkedIn       *string
	Instagram      *string
}

type AddExperienceInput struct {
	UserID      uint
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

type AddEducationInput struct {
	UserID       uint
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

func NewProfileService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

// GetProfile returns the profile of the given user, with the user preloaded.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// ListProfiles returns profiles newest-first.
func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

// UpsertProfile creates the caller's profile or updates the fields the input
// provides, leaving omitted fields and the embedded experience and education
// lists untouched.
func (s *ProfileService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*models.Profile, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ProfileService", "UpsertProfile")
	defer span.End()

	if strings.TrimSpace(in.Status) == "" {
		return nil, models.NewValidationError("Status is required")
	}
	skills := ParseSkills(in.Skills)
	if len(skills) == 0 {
		return nil, models.NewValidationError("Skills is required")
	}

	apply := func(p *models.Profile) {
		setField(&p.Company, in.Company)
		setField(&p.Website, in.Website)
		setField(&p.Location, in.Location)
		setField(&p.Bio, in.Bio)
		p.Status = strings.TrimSpace(in.Status)
		p.Skills = skills
		setField(&p.GithubUsername, in.GithubUsername)
		setField(&p.Social.YouTube, in.YouTube)
		setField(&p.Social.Twitter, in.Twitter)
		setField(&p.Social.Facebook, in.Facebook)
		setField(&p.Social.LinkedIn, in.LinkedIn)
		setField(&p.Social.Instagram, in.Instagram)
	}

	profile, err := s.mutateProfile(ctx, in.UserID, func(p *models.Profile) error {
		apply(p)
		return nil
	})
	if err == nil {
		return profile, nil
	}

	// No profile yet: create one.
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		return nil, err
	}

	created := &models.Profile{UserID: in.UserID}
	apply(created)
	if err := s.profileRepo.Create(ctx, created); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, in.UserID)
}

// AddExperience prepends a work history entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, in AddExperienceInput) (*models.Profile, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ProfileService", "AddExperience")
	defer span.End()

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		return nil, models.NewValidationError("Company is required")
	}
	if in.From.IsZero() {
		return nil, models.NewValidationError("From date is required")
	}
	if in.Current && in.To != nil {
		return nil, models.NewValidationError("Current positions cannot have an end date")
	}

	entry := models.Experience{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}

	return s.mutateProfile(ctx, in.UserID, func(p *models.Profile) error {
		p.Experience = append([]models.Experience{entry}, p.Experience...)
		return nil
	})
}

// RemoveExperience deletes the entry with the given id from the caller's
// profile. A missing id is reported as not found rather than ignored.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID uint, expID string) (*models.Profile, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ProfileService", "RemoveExperience")
	defer span.End()

	return s.mutateProfile(ctx, userID, func(p *models.Profile) error {
		idx := p.ExperienceIndex(expID)
		if idx < 0 {
			return models.NewNotFoundError("Experience", expID)
		}
		p.Experience = append(p.Experience[:idx], p.Experience[idx+1:]...)
		return nil
	})
}

// AddEducation prepends a schooling entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, in AddEducationInput) (*models.Profile, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ProfileService", "AddEducation")
	defer span.End()

	if strings.TrimSpace(in.School) == "" {
		return nil, models.NewValidationError("School is required")
	}
	if strings.TrimSpace(in.Degree) == "" {
		return nil, models.NewValidationError("Degree is required")
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		return nil, models.NewValidationError("Field of study is required")
	}
	if in.From.IsZero() {
		return nil, models.NewValidationError("From date is required")
	}
	if in.Current && in.To != nil {
		return nil, models.NewValidationError("Current studies cannot have an end date")
	}

	entry := models.Education{
		ID:           uuid.NewString(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}

	return s.mutateProfile(ctx, in.UserID, func(p *models.Profile) error {
		p.Education = append([]models.Education{entry}, p.Education...)
		return nil
	})
}

// RemoveEducation deletes the entry with the given id from the caller's
// profile. A missing id is reported as not found rather than ignored.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID uint, eduID string) (*models.Profile, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ProfileService", "RemoveEducation")
	defer span.End()

	return s.mutateProfile(ctx, userID, func(p *models.Profile) error {
		idx := p.EducationIndex(eduID)
		if idx < 0 {
			return models.NewNotFoundError("Education", eduID)
		}
		p.Education = append(p.Education[:idx], p.Education[idx+1:]...)
		return nil
	})
}

// mutateProfile runs the read-modify-write cycle with bounded retries on
// version conflicts. The mutate callback must be safe to re-run against a
// freshly loaded profile.
func (s *ProfileService) mutateProfile(ctx context.Context, userID uint, mutate func(*models.Profile) error) (*models.Profile, error) {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		profile, err := s.profileRepo.GetForUpdate(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := mutate(profile); err != nil {
			return nil, err
		}

		err = s.profileRepo.Save(ctx, profile)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, models.NewConflictError("Profile was modified concurrently, please retry")
}

// setField writes src over dst only when the caller actually provided it.
func setField(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ParseSkills splits a comma-separated skills string into an ordered set:
// entries are trimmed, empties dropped, duplicates keep their first position.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}
	return skills
}
