package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moodease/server/models"
	"github.com/moodease/server/routes"
)

// testRedis backs the cache layer for the whole suite. Each test gets a
// fresh database, so newTestRouter flushes it to keep cached feed and
// stats payloads from crossing test boundaries.
var testRedis *miniredis.Miniredis

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	os.Setenv("GIN_MODE", "test")

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	testRedis = mr
	os.Setenv("REDIS_PORT", mr.Port())

	tmp, _ := os.MkdirTemp("", "moodease-test-logs")
	os.Setenv("GIN_PATH", tmp+"/gin.log")
	os.Setenv("LOG_PATH", tmp+"/app.log")
	code := m.Run()
	mr.Close()
	os.RemoveAll(tmp)
	os.Exit(code)
}

var testDBSeq int

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Mood{}, &models.Challenge{}, &models.Post{}))
	return db
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	testRedis.FlushAll()
	db := newTestDB(t)
	return routes.SetupRouter(db), db
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, r *gin.Engine, username, email string) (string, uint) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	profile, _ := body["profile"].(map[string]interface{})
	require.NotNil(t, profile)
	id, _ := profile["id"].(float64)
	require.NotZero(t, id)

	return token, uint(id)
}
