package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"zetchat-api/controllers"
	"zetchat-api/models"
)

func newStatsContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	return c, w
}

func TestGetStats(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Chat{}, &models.Message{}))

	user := models.User{
		Username: "alice", Email: "alice@example.com", Password: "x",
		IsVerified: true, Status: models.UserStatusOnline,
	}
	require.NoError(t, db.Create(&user).Error)

	c, w := newStatsContext(t)
	controllers.NewAdminController(db).GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["total_users"])
	assert.EqualValues(t, 1, body["online_users"])
	assert.EqualValues(t, 0, body["total_chats"])
}

func TestGetStatsDatabaseError(t *testing.T) {
	// No migrations ran, so every count hits a missing table
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	c, w := newStatsContext(t)
	controllers.NewAdminController(db).GetStats(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
