package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

// PostController manages the community feed.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

const feedLimit = 50

const feedCacheKey = "cache:posts:feed"

// postPayload joins the author's username into the response without exposing
// the rest of the account.
func postPayload(post models.Post) gin.H {
	reactions := post.Reactions
	if reactions == nil {
		reactions = map[string]int{}
	}
	return gin.H{
		"id":         post.ID,
		"user_id":    post.UserID,
		"username":   post.User.Username,
		"content":    post.Content,
		"reactions":  reactions,
		"created_at": post.CreatedAt,
	}
}

// ListPosts returns the newest posts, capped at feedLimit, author joined in.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(feedCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var posts []models.Post
	if err := p.db.Preload("User").Order("created_at DESC").Limit(feedLimit).Find(&posts).Error; err != nil {
		utils.Internal(ctx, "failed to list posts", err)
		return
	}

	payload := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		payload = append(payload, postPayload(post))
	}

	utils.CacheSetJSON(feedCacheKey, payload, time.Hour)
	ctx.JSON(http.StatusOK, payload)
}

// CreatePost publishes a post to the community feed.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	post := models.Post{
		UserID:    userID,
		Content:   content,
		Reactions: map[string]int{},
	}
	if err := p.db.Create(&post).Error; err != nil {
		utils.Internal(ctx, "failed to create post", err)
		return
	}

	if err := p.db.Preload("User").First(&post, post.ID).Error; err != nil {
		utils.Internal(ctx, "failed to load created post", err)
		return
	}

	utils.InvalidateByPrefix(feedCacheKey)
	utils.InvalidateByPrefix(statsCacheKey(userID))

	ctx.JSON(http.StatusCreated, postPayload(post))
}

// DeletePost removes one of the caller's posts.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	res := p.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).Delete(&models.Post{})
	if res.Error != nil {
		utils.Internal(ctx, "failed to delete post", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	utils.InvalidateByPrefix(feedCacheKey)
	utils.InvalidateByPrefix(statsCacheKey(userID))

	ctx.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// ReactToPost increments an emoji counter on any post. Reactions are not
// de-duplicated per user; repeated increments are allowed. The locked
// read-modify-write keeps concurrent reactions from losing counts.
func (p *PostController) ReactToPost(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Emoji string `json:"emoji"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	emoji := strings.TrimSpace(req.Emoji)
	if emoji == "" {
		utils.Error(ctx, http.StatusBadRequest, "emoji is required")
		return
	}

	var post models.Post
	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&post, ctx.Param("id")).Error; err != nil {
			return err
		}
		if post.Reactions == nil {
			post.Reactions = map[string]int{}
		}
		post.Reactions[emoji]++
		// Save routes the map through the model's JSON serializer; a
		// single-column Update would hand the raw map to the SQL driver.
		return tx.Save(&post).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return
		}
		utils.Internal(ctx, "failed to record reaction", err)
		return
	}

	utils.InvalidateByPrefix(feedCacheKey)

	ctx.JSON(http.StatusOK, gin.H{"reactions": post.Reactions})
}
