package repositories

import (
	"time"

	"gorm.io/gorm"

	"zetchat-api/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListOptions is a keyset cursor over the (created_at, id) ordering key.
// Before pages backwards from the cursor (newest first), After pages forwards
// (oldest first). With no cursor the newest page is returned.
type ListOptions struct {
	Limit  int
	Before *models.Message
	After  *models.Message
}

// ListForChat pages through a chat's messages. The composite (created_at, id)
// comparison means a cursor never skips or repeats rows, even when several
// messages share a timestamp or inserts land mid-pagination.
func (r *MessageRepository) ListForChat(chatID string, opts ListOptions) ([]models.Message, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := r.db.Where("chat_id = ?", chatID)

	switch {
	case opts.Before != nil:
		query = query.
			Where("created_at < ? OR (created_at = ? AND id < ?)",
				opts.Before.CreatedAt, opts.Before.CreatedAt, opts.Before.ID).
			Order("created_at DESC, id DESC")
	case opts.After != nil:
		query = query.
			Where("created_at > ? OR (created_at = ? AND id > ?)",
				opts.After.CreatedAt, opts.After.CreatedAt, opts.After.ID).
			Order("created_at ASC, id ASC")
	default:
		query = query.Order("created_at DESC, id DESC")
	}

	var messages []models.Message
	if err := query.Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}

// ByID fetches a single message scoped to its chat, so a message ID from
// another chat cannot be used as a cursor or read marker.
func (r *MessageRepository) ByID(chatID, messageID string) (*models.Message, error) {
	var message models.Message
	if err := r.db.Where("chat_id = ? AND id = ?", chatID, messageID).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkReadUpTo flips every unread message from other senders with a creation
// time at or before the target message's. Re-running it matches zero rows and
// succeeds, which is what makes markRead idempotent.
func (r *MessageRepository) MarkReadUpTo(chatID, readerID string, upTo *models.Message, now time.Time) (int64, error) {
	result := r.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id != ? AND read = ? AND created_at <= ?",
			chatID, readerID, false, upTo.CreatedAt).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

// CountUnread counts messages the user has not read from other senders.
func (r *MessageRepository) CountUnread(chatID, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id != ? AND read = ?", chatID, userID, false).
		Count(&count).Error
	return count, err
}
