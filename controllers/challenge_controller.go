package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moodease/server/config"
	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

// ChallengeController manages per-user challenge streaks.
type ChallengeController struct {
	db *gorm.DB
}

var errAlreadyCompletedToday = errors.New("challenge already completed today")

// NewChallengeController creates a new controller instance.
func NewChallengeController(db *gorm.DB) *ChallengeController {
	return &ChallengeController{db: db}
}

// ListChallenges returns the caller's challenge rows, creating one row per
// challenge kind on first access. The insert-or-ignore against the
// (user_id, challenge_type) unique key keeps concurrent first calls from
// producing duplicates.
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows := make([]models.Challenge, 0, len(models.ChallengeTypes))
	for _, kind := range models.ChallengeTypes {
		rows = append(rows, models.Challenge{
			UserID:        userID,
			ChallengeType: kind,
			StreakCount:   0,
			Badges:        []string{},
		})
	}
	res := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_type"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		utils.Internal(ctx, "failed to initialize challenges", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InvalidateByPrefix(statsCacheKey(userID))
	}

	var challenges []models.Challenge
	if err := c.db.Where("user_id = ?", userID).Order("id ASC").Find(&challenges).Error; err != nil {
		utils.Internal(ctx, "failed to list challenges", err)
		return
	}

	ctx.JSON(http.StatusOK, challenges)
}

// CompleteChallenge marks a challenge done for today. The server is
// authoritative: any streak or badge values in the request body are ignored,
// the streak moves by exactly 1 per calendar day, and the badge set is
// recomputed from the fixed thresholds inside the same transaction.
func (c *ChallengeController) CompleteChallenge(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
	loc := config.Location()

	var challenge models.Challenge
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ?", ctx.Param("id"), userID).
			First(&challenge).Error; err != nil {
			return err
		}

		if challenge.LastCompleted != nil && utils.SameDay(*challenge.LastCompleted, now, loc) {
			return errAlreadyCompletedToday
		}

		// A gap of any length still moves the streak by exactly 1.
		challenge.StreakCount++
		challenge.Badges = models.BadgesForStreak(challenge.StreakCount)
		challenge.LastCompleted = &now
		challenge.UpdatedAt = now

		return tx.Save(&challenge).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "challenge not found")
			return
		}
		if errors.Is(err, errAlreadyCompletedToday) {
			utils.Error(ctx, http.StatusConflict, "challenge already completed today")
			return
		}
		utils.Internal(ctx, "failed to complete challenge", err)
		return
	}

	utils.InvalidateByPrefix(statsCacheKey(userID))
	ctx.JSON(http.StatusOK, challenge)
}
