package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodease/server/config"
	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

// MoodController manages the caller's mood log.
type MoodController struct {
	db *gorm.DB
}

// NewMoodController creates a new MoodController instance.
func NewMoodController(db *gorm.DB) *MoodController {
	return &MoodController{db: db}
}

// ListMoods returns the caller's mood entries, newest first.
func (m *MoodController) ListMoods(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var moods []models.Mood
	if err := m.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&moods).Error; err != nil {
		utils.Internal(ctx, "failed to list moods", err)
		return
	}

	ctx.JSON(http.StatusOK, moods)
}

// CreateMood records today's mood entry. At most one entry per calendar day
// is admitted; the (user_id, entry_date) unique key closes the concurrent
// window the pre-check cannot.
func (m *MoodController) CreateMood(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		MoodValue int    `json:"mood_value"`
		MoodEmoji string `json:"mood_emoji"`
		Notes     string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.MoodEmoji = strings.TrimSpace(req.MoodEmoji)
	if req.MoodValue == 0 || req.MoodEmoji == "" {
		utils.Error(ctx, http.StatusBadRequest, "mood_value and mood_emoji are required")
		return
	}

	now := time.Now()
	entryDate := utils.DateOnly(now, config.Location())

	var existing models.Mood
	err := m.db.Where("user_id = ? AND entry_date = ?", userID, entryDate).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusConflict, "already logged a mood today")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Internal(ctx, "failed to check today's mood", err)
		return
	}

	mood := models.Mood{
		UserID:    userID,
		EntryDate: entryDate,
		MoodValue: req.MoodValue,
		MoodEmoji: req.MoodEmoji,
		Notes:     utils.Sanitize(strings.TrimSpace(req.Notes)),
		CreatedAt: now,
	}
	if err := m.db.Create(&mood).Error; err != nil {
		if isDuplicateKey(err) {
			utils.Error(ctx, http.StatusConflict, "already logged a mood today")
			return
		}
		utils.Internal(ctx, "failed to create mood", err)
		return
	}

	utils.InvalidateByPrefix(statsCacheKey(userID))
	ctx.JSON(http.StatusCreated, mood)
}

// DeleteMood removes one of the caller's mood entries.
func (m *MoodController) DeleteMood(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Scoping the delete by user_id means someone else's entry is
	// indistinguishable from a missing one.
	res := m.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).Delete(&models.Mood{})
	if res.Error != nil {
		utils.Internal(ctx, "failed to delete mood", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, "mood not found")
		return
	}

	utils.InvalidateByPrefix(statsCacheKey(userID))
	ctx.JSON(http.StatusOK, gin.H{"message": "mood deleted"})
}
