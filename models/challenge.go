package models

import "time"

// Challenge kinds are a closed set; one row per user per kind.
const (
	ChallengeDailyMood  = "daily_mood"
	ChallengeGratitude  = "gratitude"
	ChallengeBreathing  = "breathing"
	ChallengeMeditation = "meditation"
)

// ChallengeTypes lists every kind in display order, used for lazy initialization.
var ChallengeTypes = []string{
	ChallengeDailyMood,
	ChallengeGratitude,
	ChallengeBreathing,
	ChallengeMeditation,
}

// Badge pairs a badge name with the streak length that earns it.
type Badge struct {
	Name      string
	Threshold int
}

// BadgeTable is ordered by ascending threshold. The badge set of a challenge
// is always {b | b.Threshold <= StreakCount}; it is derived, never authored.
var BadgeTable = []Badge{
	{Name: "First Step", Threshold: 1},
	{Name: "Getting Started", Threshold: 3},
	{Name: "Building Momentum", Threshold: 7},
	{Name: "Consistent", Threshold: 14},
	{Name: "Dedicated", Threshold: 30},
	{Name: "Champion", Threshold: 60},
}

// BadgesForStreak computes the earned badge names for a streak count.
func BadgesForStreak(streak int) []string {
	earned := make([]string, 0, len(BadgeTable))
	for _, b := range BadgeTable {
		if streak >= b.Threshold {
			earned = append(earned, b.Name)
		}
	}
	return earned
}

// Challenge tracks one user's streak for a single challenge kind.
type Challenge struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:uidx_challenges_user_type" json:"user_id"`
	ChallengeType string     `gorm:"size:32;not null;uniqueIndex:uidx_challenges_user_type" json:"challenge_type"`
	StreakCount   int        `gorm:"not null;default:0" json:"streak_count"`
	LastCompleted *time.Time `json:"last_completed"`
	Badges        []string   `gorm:"serializer:json" json:"badges"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
