package controllers

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moodease/server/models"
)

func openMoodDB(t *testing.T, translate bool) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: translate,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Mood{}))
	return db
}

// A second insert for the same (user, day) must surface as a duplicate-key
// error. This is the backstop for two requests that both pass the existence
// pre-check before either row lands.
func TestSameDayInsertHitsUniqueKey(t *testing.T) {
	db := openMoodDB(t, true)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	first := models.Mood{UserID: 1, EntryDate: day, MoodValue: 4, MoodEmoji: "🙂"}
	require.NoError(t, db.Create(&first).Error)

	second := models.Mood{UserID: 1, EntryDate: day, MoodValue: 2, MoodEmoji: "😕"}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, isDuplicateKey(err))

	// Another user on the same day is not a conflict.
	other := models.Mood{UserID: 2, EntryDate: day, MoodValue: 5, MoodEmoji: "😄"}
	assert.NoError(t, db.Create(&other).Error)
}

// Without error translation the driver reports the raw constraint message;
// the string fallback still has to classify it.
func TestSameDayInsertDuplicateWithoutTranslation(t *testing.T) {
	db := openMoodDB(t, false)

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Mood{UserID: 1, EntryDate: day, MoodValue: 4, MoodEmoji: "🙂"}).Error)

	err := db.Create(&models.Mood{UserID: 1, EntryDate: day, MoodValue: 2, MoodEmoji: "😕"}).Error
	require.Error(t, err)
	assert.False(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(err))
}

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, isDuplicateKey(nil))
	assert.False(t, isDuplicateKey(errors.New("connection reset")))
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(errors.New(`Error 1062 (23000): Duplicate entry '1-2026-03-14' for key 'uidx_moods_user_date'`)))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: moods.user_id, moods.entry_date")))
}
