// Package models contains data structures for the application's domain models.
package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the DevLink application.
// Identity fields are immutable after creation; deleting a user cascades
// to its profile and posts (see service.AccountService).
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GravatarURL builds the gravatar image URL for an email address
// (200px, PG-rated, "mystery man" fallback).
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
