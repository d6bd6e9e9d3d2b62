package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"zetchat-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.ChatRequest{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := AddCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

// AddCustomIndexes creates the indexes AutoMigrate cannot express.
func AddCustomIndexes(db *gorm.DB) error {
	// At most one pending request per unordered user pair. The partial index
	// is what makes concurrent create() calls race-safe: both may pass the
	// existence check, only one insert commits.
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS uniq_chat_requests_pending_pair ON chat_requests(pair_key) WHERE status = 'pending'").Error; err != nil {
		return err
	}

	// Exactly one owner per chat. Ownership transfer demotes before it
	// promotes, so the index never sees two owner rows, and any promote that
	// would create a second owner fails at the storage level.
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS uniq_chat_participants_owner ON chat_participants(chat_id) WHERE role = 'owner'").Error; err != nil {
		return err
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// Prevent self-follows
	if err := db.Exec("ALTER TABLE follows ADD CONSTRAINT ck_follows_no_self_follow CHECK (follower_id != following_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add check constraint for follows: %v\n", err)
	}

	// Prevent self-addressed chat requests
	if err := db.Exec("ALTER TABLE chat_requests ADD CONSTRAINT ck_chat_requests_no_self_request CHECK (from_user_id != to_user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add check constraint for chat_requests: %v\n", err)
	}

	return nil
}
