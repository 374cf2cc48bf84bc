package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a user's post. The author's name and avatar are copied onto the
// post at creation time and never refreshed from the user record. Likes and
// comments are embedded JSON documents on the post row, kept newest-first.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Likes    []Like    `gorm:"serializer:json" json:"likes"`
	Comments []Comment `gorm:"serializer:json" json:"comments"`
	// Version guards the read-modify-write cycle on the embedded lists.
	Version   uint           `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Like marks a user's like on a post. A post holds at most one like per user.
type Like struct {
	UserID uint `json:"user_id"`
}

// Comment is a comment embedded in a post, owned by the commenting user.
// Name and avatar are snapshots of the commenter at comment time.
type Comment struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeIndex returns the position of the like by the given user, or -1.
func (p *Post) LikeIndex(userID uint) int {
	for i, like := range p.Likes {
		if like.UserID == userID {
			return i
		}
	}
	return -1
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (p *Post) CommentIndex(id string) int {
	for i, c := range p.Comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}
