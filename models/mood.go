package models

import "time"

// Mood is a single mood log entry. The (user_id, entry_date) unique key is
// what enforces the once-per-calendar-day rule under concurrent inserts.
type Mood struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_moods_user_date" json:"user_id"`
	EntryDate time.Time `gorm:"type:date;not null;uniqueIndex:uidx_moods_user_date" json:"-"`
	MoodValue int       `gorm:"not null" json:"mood_value"`
	MoodEmoji string    `gorm:"size:16;not null" json:"mood_emoji"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
