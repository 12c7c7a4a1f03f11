package models

import "time"

// Post is a community feed entry. Reactions map an emoji to its count; there
// is no per-user reaction tracking, repeated increments are allowed.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Reactions map[string]int `gorm:"serializer:json" json:"reactions"`
	CreatedAt time.Time      `json:"created_at"`
	User      User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
