package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodease/server/config"
	"github.com/moodease/server/models"
	"github.com/moodease/server/utils"
)

func TestCreateMoodOncePerDay(t *testing.T) {
	r, db := newTestRouter(t)
	token, id := registerUser(t, r, "ana", "ana@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/moods", token, gin.H{
		"mood_value": 4,
		"mood_emoji": "🙂",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Immediate repeat on the same calendar day.
	w = doJSON(t, r, http.MethodPost, "/api/moods", token, gin.H{
		"mood_value": 2,
		"mood_emoji": "😞",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Mood{}).Where("user_id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateMoodOnDistinctDays(t *testing.T) {
	r, db := newTestRouter(t)
	token, id := registerUser(t, r, "ana", "ana@x.com")

	// Seed yesterday's entry directly; the handler only ever writes "today".
	yesterday := utils.DateOnly(time.Now().Add(-24*time.Hour), config.Location())
	require.NoError(t, db.Create(&models.Mood{
		UserID:    id,
		EntryDate: yesterday,
		MoodValue: 3,
		MoodEmoji: "😐",
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/moods", token, gin.H{
		"mood_value": 5,
		"mood_emoji": "😄",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Mood{}).Where("user_id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

// Parallel submissions can all pass the existence pre-check before any row
// lands; the unique key on (user_id, entry_date) must let exactly one
// through and map the rest to a conflict.
func TestCreateMoodConcurrentSameDay(t *testing.T) {
	r, db := newTestRouter(t)
	token, id := registerUser(t, r, "ana", "ana@x.com")

	const attempts = 8
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := bytes.NewBufferString(`{"mood_value":4,"mood_emoji":"🙂"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/moods", body)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	created, conflicted := 0, 0
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicted)

	var count int64
	require.NoError(t, db.Model(&models.Mood{}).Where("user_id = ?", id).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateMoodMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)
	token, _ := registerUser(t, r, "ana", "ana@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/moods", token, gin.H{"mood_emoji": "🙂"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/moods", token, gin.H{"mood_value": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMoodsNewestFirst(t *testing.T) {
	r, db := newTestRouter(t)
	token, id := registerUser(t, r, "ana", "ana@x.com")

	loc := config.Location()
	base := time.Now().Add(-72 * time.Hour)
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		require.NoError(t, db.Create(&models.Mood{
			UserID:    id,
			EntryDate: utils.DateOnly(ts, loc),
			MoodValue: i + 1,
			MoodEmoji: "🙂",
			CreatedAt: ts,
		}).Error)
	}

	w := doJSON(t, r, http.MethodGet, "/api/moods", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var moods []models.Mood
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moods))
	require.Len(t, moods, 3)
	assert.Equal(t, 3, moods[0].MoodValue)
	assert.Equal(t, 1, moods[2].MoodValue)
	assert.True(t, moods[0].CreatedAt.After(moods[1].CreatedAt))
}

func TestDeleteMoodScopedToOwner(t *testing.T) {
	r, db := newTestRouter(t)
	tokenA, idA := registerUser(t, r, "ana", "ana@x.com")
	tokenB, _ := registerUser(t, r, "bob", "bob@x.com")

	w := doJSON(t, r, http.MethodPost, "/api/moods", tokenA, gin.H{
		"mood_value": 4,
		"mood_emoji": "🙂",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	moodID := uint(created["id"].(float64))

	// Another account cannot delete it.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/moods/%d", moodID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Mood{}).Where("user_id = ?", idA).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// The owner can.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/moods/%d", moodID), tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Model(&models.Mood{}).Where("user_id = ?", idA).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestMoodsRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/moods", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/moods", "not-a-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
