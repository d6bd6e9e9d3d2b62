package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"zetchat-api/models"
	"zetchat-api/repositories"
)

type MessageService struct {
	db       *gorm.DB
	messages *repositories.MessageRepository
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		db:       db,
		messages: repositories.NewMessageRepository(db),
	}
}

// Send appends a message to the chat's log. The participant check and the
// insert share one transaction, so a concurrent removal or chat deletion
// cannot let an ex-participant slip a message in.
func (ms *MessageService) Send(chatID, senderID, content string, messageType models.MessageType, meta models.MetaMap) (*models.Message, error) {
	switch messageType {
	case models.MessageTypeText, models.MessageTypeImage, models.MessageTypeFile:
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrValidation, messageType)
	}
	if messageType == models.MessageTypeText && strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	var message models.Message
	err := ms.db.Transaction(func(tx *gorm.DB) error {
		if err := requireParticipant(tx, chatID, senderID); err != nil {
			return err
		}

		message = models.Message{
			ChatID:   chatID,
			SenderID: senderID,
			Content:  content,
			Type:     messageType,
			Meta:     meta,
			Read:     false,
		}
		return tx.Create(&message).Error
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// List pages through the chat's messages for a participant. Cursor IDs must
// reference messages of the same chat.
func (ms *MessageService) List(chatID, requesterID string, limit int, beforeID, afterID string) ([]models.Message, error) {
	if err := requireParticipant(ms.db, chatID, requesterID); err != nil {
		return nil, err
	}

	opts := repositories.ListOptions{Limit: limit}
	if beforeID != "" {
		cursor, err := cursorMessage(ms.db, chatID, beforeID)
		if err != nil {
			return nil, err
		}
		opts.Before = cursor
	} else if afterID != "" {
		cursor, err := cursorMessage(ms.db, chatID, afterID)
		if err != nil {
			return nil, err
		}
		opts.After = cursor
	}

	return ms.messages.ListForChat(chatID, opts)
}

// MarkRead marks every unread message up to the target message as read by
// readerID. Calling it again is a no-op, not an error. The whole operation
// runs in one transaction against the membership check.
func (ms *MessageService) MarkRead(chatID, readerID, upToMessageID string) (int64, error) {
	var marked int64
	err := ms.db.Transaction(func(tx *gorm.DB) error {
		if err := requireParticipant(tx, chatID, readerID); err != nil {
			return err
		}

		upTo, err := cursorMessage(tx, chatID, upToMessageID)
		if err != nil {
			return err
		}

		marked, err = repositories.NewMessageRepository(tx).
			MarkReadUpTo(chatID, readerID, upTo, time.Now())
		return err
	})
	if err != nil {
		return 0, err
	}

	return marked, nil
}

func (ms *MessageService) UnreadCount(chatID, userID string) (int64, error) {
	if err := requireParticipant(ms.db, chatID, userID); err != nil {
		return 0, err
	}
	return ms.messages.CountUnread(chatID, userID)
}

func requireParticipant(tx *gorm.DB, chatID, userID string) error {
	if _, err := loadChat(tx, chatID); err != nil {
		return err
	}
	if _, err := participantOf(tx, chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
		}
		return err
	}
	return nil
}

func cursorMessage(tx *gorm.DB, chatID, messageID string) (*models.Message, error) {
	message, err := repositories.NewMessageRepository(tx).ByID(chatID, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: message not found in this chat", ErrNotFound)
		}
		return nil, err
	}
	return message, nil
}
