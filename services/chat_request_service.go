package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"zetchat-api/models"
)

const maxRequestMessageLen = 500

type ChatRequestService struct {
	db *gorm.DB
}

func NewChatRequestService(db *gorm.DB) *ChatRequestService {
	return &ChatRequestService{db: db}
}

// Create opens a pending chat request from fromUserID to toUserID. At most one
// pending request may exist per unordered pair in either direction; the partial
// unique index on chat_requests.pair_key enforces this even when two creates
// run in parallel, so the insert itself is the authoritative check.
func (cs *ChatRequestService) Create(fromUserID, toUserID string, message *string) (*models.ChatRequest, error) {
	if fromUserID == toUserID {
		return nil, fmt.Errorf("%w: cannot send a chat request to yourself", ErrInvalidOperand)
	}
	if message != nil && utf8.RuneCountInString(*message) > maxRequestMessageLen {
		return nil, fmt.Errorf("%w: request message exceeds %d characters", ErrValidation, maxRequestMessageLen)
	}

	var recipient models.User
	if err := cs.db.First(&recipient, "id = ?", toUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}

	request := models.ChatRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.ChatRequestStatusPending,
		Message:    message,
	}

	if err := cs.db.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a pending chat request already exists between these users", ErrConflict)
		}
		return nil, err
	}

	return &request, nil
}

// Accept flips the request to accepted and provisions the direct chat in one
// transaction: either both effects commit or neither does. If a direct chat
// between the pair already exists from an earlier handshake it is reused.
func (cs *ChatRequestService) Accept(requestID, actingUserID string) (*models.Chat, error) {
	var chat *models.Chat

	err := cs.db.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.ToUserID != actingUserID {
			return fmt.Errorf("%w: only the addressee can accept a chat request", ErrForbidden)
		}
		if err := resolveRequest(tx, request, models.ChatRequestStatusAccepted); err != nil {
			return err
		}

		chat, err = provisionDirectChat(tx, request.FromUserID, request.ToUserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return chat, nil
}

// Reject flips the request to rejected. No chat is provisioned.
func (cs *ChatRequestService) Reject(requestID, actingUserID string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.ToUserID != actingUserID {
			return fmt.Errorf("%w: only the addressee can reject a chat request", ErrForbidden)
		}
		return resolveRequest(tx, request, models.ChatRequestStatusRejected)
	})
}

// Cancel flips the request to canceled. Only the sender may cancel.
func (cs *ChatRequestService) Cancel(requestID, actingUserID string) error {
	return cs.db.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequest(tx, requestID)
		if err != nil {
			return err
		}
		if request.FromUserID != actingUserID {
			return fmt.Errorf("%w: only the sender can cancel a chat request", ErrForbidden)
		}
		return resolveRequest(tx, request, models.ChatRequestStatusCanceled)
	})
}

func (cs *ChatRequestService) ListIncoming(userID string, status *models.ChatRequestStatus, page, limit int) ([]models.ChatRequest, error) {
	return cs.list("to_user_id", "FromUser", userID, status, page, limit)
}

func (cs *ChatRequestService) ListOutgoing(userID string, status *models.ChatRequestStatus, page, limit int) ([]models.ChatRequest, error) {
	return cs.list("from_user_id", "ToUser", userID, status, page, limit)
}

func (cs *ChatRequestService) list(column, preload, userID string, status *models.ChatRequestStatus, page, limit int) ([]models.ChatRequest, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := cs.db.Preload(preload).Where(column+" = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []models.ChatRequest
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, err
	}

	for i := range requests {
		requests[i].FromUser.Password = ""
		requests[i].ToUser.Password = ""
	}

	return requests, nil
}

func loadRequest(tx *gorm.DB, requestID string) (*models.ChatRequest, error) {
	var request models.ChatRequest
	if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: chat request not found", ErrNotFound)
		}
		return nil, err
	}
	return &request, nil
}

// resolveRequest performs the single allowed transition pending -> terminal.
// The guarded UPDATE (status = 'pending' in the WHERE clause) is what makes
// concurrent resolutions safe: the second one affects zero rows.
func resolveRequest(tx *gorm.DB, request *models.ChatRequest, to models.ChatRequestStatus) error {
	if request.Status.IsTerminal() {
		return fmt.Errorf("%w: chat request is already %s", ErrInvalidState, request.Status)
	}

	result := tx.Model(&models.ChatRequest{}).
		Where("id = ? AND status = ?", request.ID, models.ChatRequestStatusPending).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: chat request was already resolved", ErrInvalidState)
	}

	request.Status = to
	return nil
}

// provisionDirectChat finds or creates the one direct chat for a user pair.
// The unique index on chats.pair_key backstops the find-then-create: if a
// concurrent acceptance wins the insert, this transaction fails with Conflict
// and rolls back the status flip, leaving the request pending for a retry
// that will then reuse the surviving chat.
func provisionDirectChat(tx *gorm.DB, userA, userB string) (*models.Chat, error) {
	pairKey := models.PairKey(userA, userB)

	var existing models.Chat
	err := tx.Preload("Participants").Where("pair_key = ?", pairKey).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	chat := models.Chat{
		Type:    models.ChatTypeDirect,
		PairKey: &pairKey,
	}
	if err := tx.Create(&chat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a direct chat between these users was just created", ErrConflict)
		}
		return nil, err
	}

	participants := []models.ChatParticipant{
		{ChatID: chat.ID, UserID: userA, Role: models.RoleMember},
		{ChatID: chat.ID, UserID: userB, Role: models.RoleMember},
	}
	if err := tx.Create(&participants).Error; err != nil {
		return nil, err
	}

	chat.Participants = participants
	return &chat, nil
}
