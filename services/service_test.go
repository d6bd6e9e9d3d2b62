package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"zetchat-api/database"
	"zetchat-api/models"
)

// newTestDB opens an isolated in-memory database with the same schema,
// indexes and error translation the production setup uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.ChatRequest{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	))
	require.NoError(t, database.AddCustomIndexes(db))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:   username,
		Email:      fmt.Sprintf("%s@example.com", username),
		Password:   "$2a$10$dummy",
		IsVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createTestGroupChat seeds a group chat with an owner and plain members,
// bypassing the service layer so tests control the roster exactly.
func createTestGroupChat(t *testing.T, db *gorm.DB, ownerID string, memberIDs ...string) *models.Chat {
	t.Helper()

	chat := models.Chat{Type: models.ChatTypeGroup}
	require.NoError(t, db.Create(&chat).Error)

	participants := []models.ChatParticipant{
		{ChatID: chat.ID, UserID: ownerID, Role: models.RoleOwner},
	}
	for _, memberID := range memberIDs {
		participants = append(participants, models.ChatParticipant{
			ChatID: chat.ID, UserID: memberID, Role: models.RoleMember,
		})
	}
	require.NoError(t, db.Create(&participants).Error)

	return &chat
}

// createTestDirectChat seeds the unique direct chat for a user pair.
func createTestDirectChat(t *testing.T, db *gorm.DB, userA, userB string) *models.Chat {
	t.Helper()

	pairKey := models.PairKey(userA, userB)
	chat := models.Chat{Type: models.ChatTypeDirect, PairKey: &pairKey}
	require.NoError(t, db.Create(&chat).Error)

	participants := []models.ChatParticipant{
		{ChatID: chat.ID, UserID: userA, Role: models.RoleMember},
		{ChatID: chat.ID, UserID: userB, Role: models.RoleMember},
	}
	require.NoError(t, db.Create(&participants).Error)

	return &chat
}
