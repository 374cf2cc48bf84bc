// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"devlink/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// demoPassword is the password every seeded account logs in with.
const demoPassword = "Password123!"

var (
	statuses = []string{
		"Junior Developer", "Developer", "Senior Developer", "Tech Lead",
		"Engineering Manager", "Student or Learning", "Instructor", "Freelancer",
	}

	skillPool = []string{
		"Go", "JavaScript", "TypeScript", "Python", "SQL", "PostgreSQL",
		"Redis", "Docker", "Kubernetes", "React", "Node.js", "HTML", "CSS",
		"AWS", "Terraform", "gRPC", "Kafka", "GraphQL",
	}

	degrees = []string{
		"BSc", "MSc", "BA", "Bootcamp Certificate", "Associate Degree",
	}

	fields = []string{
		"Computer Science", "Software Engineering", "Information Systems",
		"Mathematics", "Electrical Engineering",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	// Random suffix keeps generated emails from colliding on the unique index.
	email := fmt.Sprintf("%s%d@%s", gofakeit.Username(), gofakeit.Number(100, 9999), gofakeit.DomainName())
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: string(hashedPassword),
		Avatar:   models.GravatarURL(email),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile constructs and persists a profile for the given user, with a
// couple of experience and education entries.
func (f *Factory) CreateProfile(user *models.User, overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:         user.ID,
		Company:        gofakeit.Company(),
		Website:        gofakeit.URL(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
		Bio:            gofakeit.Sentence(12),
		Status:         pick(f.rng, statuses),
		Skills:         f.pickSkills(3 + f.rng.Intn(4)),
		GithubUsername: gofakeit.Username(),
		Social: models.Social{
			Twitter:  fmt.Sprintf("https://twitter.com/%s", gofakeit.Username()),
			LinkedIn: fmt.Sprintf("https://linkedin.com/in/%s", gofakeit.Username()),
		},
		Experience: f.buildExperience(1 + f.rng.Intn(3)),
		Education:  f.buildEducation(1 + f.rng.Intn(2)),
	}

	for _, override := range overrides {
		override(profile)
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreatePost constructs and persists a post authored by the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID: user.ID,
		Name:   user.Name,
		Avatar: user.Avatar,
		Text:   gofakeit.Paragraph(1, 3, 8, "\n"),
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (f *Factory) buildExperience(n int) []models.Experience {
	out := make([]models.Experience, 0, n)
	for i := 0; i < n; i++ {
		from := time.Now().AddDate(-(i + 1), -f.rng.Intn(12), 0)
		exp := models.Experience{
			ID:          uuid.NewString(),
			Title:       gofakeit.JobTitle(),
			Company:     gofakeit.Company(),
			Location:    gofakeit.City(),
			From:        from,
			Description: gofakeit.Sentence(10),
		}
		if i == 0 {
			exp.Current = true
		} else {
			to := from.AddDate(1, 0, 0)
			exp.To = &to
		}
		out = append(out, exp)
	}
	return out
}

func (f *Factory) buildEducation(n int) []models.Education {
	out := make([]models.Education, 0, n)
	for i := 0; i < n; i++ {
		from := time.Now().AddDate(-(i+3)*2, 0, 0)
		to := from.AddDate(3, 0, 0)
		out = append(out, models.Education{
			ID:           uuid.NewString(),
			School:       fmt.Sprintf("%s University", gofakeit.City()),
			Degree:       pick(f.rng, degrees),
			FieldOfStudy: pick(f.rng, fields),
			From:         from,
			To:           &to,
			Description:  gofakeit.Sentence(8),
		})
	}
	return out
}

func (f *Factory) pickSkills(n int) []string {
	picked := make([]string, 0, n)
	seen := make(map[string]bool)
	for len(picked) < n {
		skill := pick(f.rng, skillPool)
		if seen[skill] {
			continue
		}
		seen[skill] = true
		picked = append(picked, skill)
	}
	return picked
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
