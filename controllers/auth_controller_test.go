package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newTestRouter(t)

	tokenA, id := registerUser(t, r, "ana", "ana@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ana@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	tokenB, _ := body["token"].(string)
	require.NotEmpty(t, tokenB)

	// Two distinct tokens, same decoded identity.
	claimsA, err := utils.ParseToken(tokenA)
	require.NoError(t, err)
	claimsB, err := utils.ParseToken(tokenB)
	require.NoError(t, err)
	assert.Equal(t, id, claimsA.UserID)
	assert.Equal(t, claimsA.UserID, claimsB.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, db := newTestRouter(t)

	registerUser(t, r, "ana", "ana@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "other",
		"email":    "ana@x.com",
		"password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "ana@x.com").Count(&count).Error)
	assert.EqualValues(t, 1, count, "a second account must never be created")
}

func TestRegisterMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	for name, body := range map[string]gin.H{
		"no username": {"email": "a@x.com", "password": "secret1"},
		"no email":    {"username": "a", "password": "secret1"},
		"no password": {"username": "a", "email": "a@x.com"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r, _ := newTestRouter(t)

	registerUser(t, r, "ana", "ana@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ana@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@x.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordNeverStoredInPlaintext(t *testing.T) {
	r, db := newTestRouter(t)

	registerUser(t, r, "ana", "ana@x.com")

	var user models.User
	require.NoError(t, db.Where("email = ?", "ana@x.com").First(&user).Error)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, utils.CheckPassword(user.PasswordHash, "secret1"))
}
