package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moodease/server/config"
	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

// AuthController handles registration and login.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// profilePayload is the public view of an account returned alongside tokens.
func profilePayload(user models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}
}

// Register creates a local account with bcrypt hashing and issues a session token.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, "username, email and password are required")
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Internal(ctx, "failed to check email", err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Internal(ctx, "failed to hash password", err)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		// The unique keys on email/username close the race the pre-check leaves open.
		if isDuplicateKey(err) {
			utils.Error(ctx, http.StatusConflict, "email or username already registered")
			return
		}
		utils.Internal(ctx, "failed to create user", err)
		return
	}

	token, err := utils.GenerateToken(user.ID, config.TokenDuration())
	if err != nil {
		utils.Internal(ctx, "failed to generate token", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":   token,
		"profile": profilePayload(user),
	})
}

// Login verifies email/password credentials and issues a session token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same message as a bad password, no account oracle
			utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.Internal(ctx, "failed to load user", err)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, config.TokenDuration())
	if err != nil {
		utils.Internal(ctx, "failed to generate token", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":   token,
		"profile": profilePayload(user),
	})
}
