package seed

import (
	"fmt"
	"log"
	"time"

	"devlink/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder populates the database with demo users, profiles and posts.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
	}
}

// ClearAll removes all seeded data. Rows are hard-deleted so repeated seeding
// does not accumulate soft-deleted leftovers.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing database...")
	for _, model := range []interface{}{
		&models.Post{},
		&models.Profile{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed creates numUsers accounts with profiles and numPosts posts, then
// sprinkles likes and comments across the posts. Every account logs in with
// the demo password.
func (s *Seeder) Seed(numUsers, numPosts int) error {
	if numUsers <= 0 {
		return fmt.Errorf("numUsers must be positive, got %d", numUsers)
	}

	log.Printf("Seeding %d users...", numUsers)
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := s.factory.CreateProfile(user); err != nil {
			return fmt.Errorf("create profile for user %d: %w", user.ID, err)
		}
		users = append(users, user)
	}

	log.Printf("Seeding %d posts...", numPosts)
	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}

	log.Println("Sprinkling likes and comments...")
	for _, post := range posts {
		if err := s.engagePost(post, users); err != nil {
			return err
		}
	}

	log.Printf("Done: %d users, %d posts. Demo password: %s", len(users), len(posts), demoPassword)
	return nil
}

// engagePost adds a random set of likes and comments to one post.
func (s *Seeder) engagePost(post *models.Post, users []*models.User) error {
	rng := s.factory.rng

	numLikes := rng.Intn(len(users) + 1)
	for _, u := range users[:numLikes] {
		if u.ID == post.UserID {
			continue
		}
		post.Likes = append([]models.Like{{UserID: u.ID}}, post.Likes...)
	}

	numComments := rng.Intn(4)
	for i := 0; i < numComments; i++ {
		commenter := users[rng.Intn(len(users))]
		post.Comments = append([]models.Comment{{
			ID:        uuid.NewString(),
			UserID:    commenter.ID,
			Name:      commenter.Name,
			Avatar:    commenter.Avatar,
			Text:      gofakeit.Sentence(8),
			CreatedAt: post.CreatedAt.Add(time.Duration(rng.Intn(72)) * time.Hour),
		}}, post.Comments...)
	}

	if len(post.Likes) == 0 && len(post.Comments) == 0 {
		return nil
	}

	if err := s.db.Model(post).
		Select("likes", "comments").
		Updates(post).Error; err != nil {
		return fmt.Errorf("update engagement on post %d: %w", post.ID, err)
	}
	return nil
}
