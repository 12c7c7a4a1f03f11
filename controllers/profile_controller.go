package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

// ProfileController serves the caller's profile stats and username updates.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

func statsCacheKey(userID uint) string {
	return "cache:profile:stats:" + strconv.Itoa(int(userID))
}

// GetStats returns aggregate counts for the caller's account.
func (p *ProfileController) GetStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	if b, ok := utils.CacheGetBytes(statsCacheKey(userID)); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Internal(ctx, "failed to load user", err)
		return
	}

	var totalMoods, totalChallenges, totalPosts int64

	// Fall back to 0 instead of failing the whole endpoint
	if err := p.db.Model(&models.Mood{}).Where("user_id = ?", userID).Count(&totalMoods).Error; err != nil {
		totalMoods = 0
	}
	if err := p.db.Model(&models.Challenge{}).Where("user_id = ?", userID).Count(&totalChallenges).Error; err != nil {
		totalChallenges = 0
	}
	if err := p.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&totalPosts).Error; err != nil {
		totalPosts = 0
	}

	payload := gin.H{
		"username":        user.Username,
		"created_at":      user.CreatedAt,
		"totalMoods":      totalMoods,
		"totalChallenges": totalChallenges,
		"totalPosts":      totalPosts,
	}

	utils.CacheSetJSON(statsCacheKey(userID), payload, 5*time.Minute)
	ctx.JSON(http.StatusOK, payload)
}

// UpdateProfile changes the caller's display username, subject to uniqueness.
func (p *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, "username is required")
		return
	}

	var user models.User
	if err := p.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Internal(ctx, "failed to load user", err)
		return
	}

	user.Username = username
	if err := p.db.Save(&user).Error; err != nil {
		// unique key on username decides the race, not a pre-check
		if isDuplicateKey(err) {
			utils.Error(ctx, http.StatusConflict, "username already taken")
			return
		}
		utils.Internal(ctx, "failed to update profile", err)
		return
	}

	utils.InvalidateByPrefix(statsCacheKey(userID))

	ctx.JSON(http.StatusOK, gin.H{"username": user.Username})
}
