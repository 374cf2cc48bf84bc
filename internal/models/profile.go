package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is a user's professional profile. At most one profile exists per
// user. Experience and education entries are embedded JSON documents on the
// profile row, kept newest-first; they have no lifecycle outside the profile.
type Profile struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User         `gorm:"foreignKey:UserID" json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `gorm:"not null" json:"status"`
	Skills         []string     `gorm:"serializer:json" json:"skills"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Social         Social       `gorm:"serializer:json" json:"social"`
	Experience     []Experience `gorm:"serializer:json" json:"experience"`
	Education      []Education  `gorm:"serializer:json" json:"education"`
	// Version guards the read-modify-write cycle on the embedded lists.
	Version   uint           `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Social holds optional social network links on a profile.
type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is a work history entry embedded in a profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a schooling entry embedded in a profile.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// ExperienceIndex returns the position of the experience entry with the given
// id, or -1 if the profile has no such entry.
func (p *Profile) ExperienceIndex(id string) int {
	for i, exp := range p.Experience {
		if exp.ID == id {
			return i
		}
	}
	return -1
}

// EducationIndex returns the position of the education entry with the given
// id, or -1 if the profile has no such entry.
func (p *Profile) EducationIndex(id string) int {
	for i, edu := range p.Education {
		if edu.ID == id {
			return i
		}
	}
	return -1
}
