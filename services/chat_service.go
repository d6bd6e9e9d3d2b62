package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"zetchat-api/models"
)

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ChatSummary is a chat decorated with list-view fields for the caller.
type ChatSummary struct {
	models.Chat
	LastMessage *models.Message `json:"last_message,omitempty"`
	UnreadCount int64           `json:"unread_count"`
}

// CreateGroupChat creates a group chat owned by ownerID, optionally seeded
// with initial members. The owner is always a participant.
func (cs *ChatService) CreateGroupChat(ownerID string, memberIDs []string) (*models.Chat, error) {
	var chat models.Chat

	err := cs.db.Transaction(func(tx *gorm.DB) error {
		chat = models.Chat{Type: models.ChatTypeGroup}
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}

		participants := []models.ChatParticipant{
			{ChatID: chat.ID, UserID: ownerID, Role: models.RoleOwner},
		}
		seen := map[string]bool{ownerID: true}
		for _, memberID := range memberIDs {
			if seen[memberID] {
				continue
			}
			seen[memberID] = true

			var user models.User
			if err := tx.First(&user, "id = ?", memberID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: user %s not found", ErrNotFound, memberID)
				}
				return err
			}
			participants = append(participants, models.ChatParticipant{
				ChatID: chat.ID,
				UserID: memberID,
				Role:   models.RoleMember,
			})
		}

		if err := tx.Create(&participants).Error; err != nil {
			return err
		}
		chat.Participants = participants
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &chat, nil
}

// ListChats returns the user's chats ordered by last activity: the newest
// message timestamp, falling back to the chat's creation time.
func (cs *ChatService) ListChats(userID string) ([]ChatSummary, error) {
	var chats []models.Chat
	err := cs.db.Preload("Participants.User").
		Joins("JOIN chat_participants ON chat_participants.chat_id = chats.id").
		Where("chat_participants.user_id = ?", userID).
		Order("COALESCE((SELECT MAX(messages.created_at) FROM messages WHERE messages.chat_id = chats.id), chats.created_at) DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		for i := range chat.Participants {
			chat.Participants[i].User.Password = ""
		}

		summary := ChatSummary{Chat: chat}

		var last models.Message
		err := cs.db.Where("chat_id = ?", chat.ID).
			Order("created_at DESC, id DESC").First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if err := cs.db.Model(&models.Message{}).
			Where("chat_id = ? AND sender_id != ? AND read = ?", chat.ID, userID, false).
			Count(&summary.UnreadCount).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// AddParticipant adds userID to a group chat. Only an owner or admin may add,
// and direct chats never accept new participants.
func (cs *ChatService) AddParticipant(chatID, userID string, role models.ParticipantRole, actingUserID string) (*models.ChatParticipant, error) {
	if role != models.RoleMember && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: participants can only be added as member or admin", ErrValidation)
	}

	var participant models.ChatParticipant

	err := cs.db.Transaction(func(tx *gorm.DB) error {
		chat, err := loadChat(tx, chatID)
		if err != nil {
			return err
		}
		if chat.Type == models.ChatTypeDirect {
			return fmt.Errorf("%w: direct chat membership is fixed at creation", ErrInvalidOperation)
		}

		acting, err := participantOf(tx, chatID, actingUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
			}
			return err
		}
		if acting.Role != models.RoleOwner && acting.Role != models.RoleAdmin {
			return fmt.Errorf("%w: only an owner or admin can add participants", ErrForbidden)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user not found", ErrNotFound)
			}
			return err
		}

		participant = models.ChatParticipant{
			ChatID: chatID,
			UserID: userID,
			Role:   role,
		}
		if err := tx.Create(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user is already a participant of this chat", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &participant, nil
}

// RemoveParticipant removes userID from a group chat. A user may remove
// themself; an owner or admin may remove others, but never the owner. An owner
// may only leave as the last participant, which deletes the chat entirely.
func (cs *ChatService) RemoveParticipant(chatID, userID, actingUserID string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		chat, err := loadChat(tx, chatID)
		if err != nil {
			return err
		}
		if chat.Type == models.ChatTypeDirect {
			return fmt.Errorf("%w: direct chat membership is fixed at creation", ErrInvalidOperation)
		}

		target, err := participantOf(tx, chatID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user is not a participant of this chat", ErrNotFound)
			}
			return err
		}

		var total int64
		if err := tx.Model(&models.ChatParticipant{}).
			Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
			return err
		}

		if actingUserID == userID {
			if target.Role == models.RoleOwner && total > 1 {
				return fmt.Errorf("%w: transfer ownership before leaving the chat", ErrInvalidOperation)
			}
		} else {
			acting, err := participantOf(tx, chatID, actingUserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
				}
				return err
			}
			if acting.Role != models.RoleOwner && acting.Role != models.RoleAdmin {
				return fmt.Errorf("%w: only an owner or admin can remove participants", ErrForbidden)
			}
			if target.Role == models.RoleOwner {
				return fmt.Errorf("%w: the owner cannot be removed", ErrForbidden)
			}
		}

		if err := tx.Delete(&models.ChatParticipant{}, "id = ?", target.ID).Error; err != nil {
			return err
		}

		if total-1 == 0 {
			return deleteChatCascade(tx, chatID)
		}
		return nil
	})
}

// ChangeRole updates a participant's role. Only the owner may change roles.
// Promoting to owner is an ownership transfer: the acting owner is demoted to
// admin in the same transaction, so exactly one owner exists at every commit.
func (cs *ChatService) ChangeRole(chatID, userID string, newRole models.ParticipantRole, actingUserID string) error {
	if newRole != models.RoleMember && newRole != models.RoleAdmin && newRole != models.RoleOwner {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, newRole)
	}

	return cs.db.Transaction(func(tx *gorm.DB) error {
		chat, err := loadChat(tx, chatID)
		if err != nil {
			return err
		}
		if chat.Type == models.ChatTypeDirect {
			return fmt.Errorf("%w: direct chats have no roles to change", ErrInvalidOperation)
		}

		acting, err := participantOf(tx, chatID, actingUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
			}
			return err
		}
		if acting.Role != models.RoleOwner {
			return fmt.Errorf("%w: only the owner can change roles", ErrForbidden)
		}

		target, err := participantOf(tx, chatID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user is not a participant of this chat", ErrNotFound)
			}
			return err
		}

		if newRole == models.RoleOwner {
			if target.UserID == acting.UserID {
				return nil
			}
			// Demote first, guarded on the row still being the owner: when a
			// concurrent transfer already demoted it the update matches zero
			// rows and the whole transfer rolls back.
			demote := tx.Model(&models.ChatParticipant{}).
				Where("id = ? AND role = ?", acting.ID, models.RoleOwner).
				Update("role", models.RoleAdmin)
			if demote.Error != nil {
				return demote.Error
			}
			if demote.RowsAffected == 0 {
				return fmt.Errorf("%w: ownership was transferred concurrently", ErrConflict)
			}
			if err := tx.Model(&models.ChatParticipant{}).
				Where("id = ?", target.ID).Update("role", models.RoleOwner).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: the chat already has an owner", ErrConflict)
				}
				return err
			}
			return nil
		}

		if target.Role == models.RoleOwner {
			return fmt.Errorf("%w: the chat must keep exactly one owner, transfer ownership instead", ErrInvalidOperation)
		}

		return tx.Model(&models.ChatParticipant{}).
			Where("id = ?", target.ID).Update("role", newRole).Error
	})
}

// ListParticipants returns the roster ordered by join time.
func (cs *ChatService) ListParticipants(chatID, requesterID string) ([]models.ChatParticipant, error) {
	if _, err := loadChat(cs.db, chatID); err != nil {
		return nil, err
	}
	if _, err := participantOf(cs.db, chatID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
		}
		return nil, err
	}

	var participants []models.ChatParticipant
	if err := cs.db.Preload("User").Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").Find(&participants).Error; err != nil {
		return nil, err
	}

	for i := range participants {
		participants[i].User.Password = ""
	}

	return participants, nil
}

func loadChat(tx *gorm.DB, chatID string) (*models.Chat, error) {
	var chat models.Chat
	if err := tx.First(&chat, "id = ?", chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chat not found", ErrNotFound)
		}
		return nil, err
	}
	return &chat, nil
}

// participantOf returns the membership row or gorm.ErrRecordNotFound untouched
// so callers can decide between Forbidden and NotFound.
func participantOf(tx *gorm.DB, chatID, userID string) (*models.ChatParticipant, error) {
	var participant models.ChatParticipant
	if err := tx.Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// deleteChatCascade removes a chat and everything it owns. The explicit order
// (messages, participants, chat) keeps foreign keys satisfied throughout.
func deleteChatCascade(tx *gorm.DB, chatID string) error {
	if err := tx.Where("chat_id = ?", chatID).Delete(&models.Message{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chat_id = ?", chatID).Delete(&models.ChatParticipant{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Chat{}, "id = ?", chatID).Error
}
