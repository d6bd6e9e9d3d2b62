package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetchat-api/models"
	"zetchat-api/services"
)

func TestCreateRequestToYourself(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")

	_, err := cs.Create(alice.ID, alice.ID, nil)

	assert.ErrorIs(t, err, services.ErrInvalidOperand)
}

func TestCreateRequestToUnknownUser(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")

	_, err := cs.Create(alice.ID, "no-such-user", nil)

	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCreateRequestMessageTooLong(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// 501 code points, multi-byte on purpose: the limit counts runes, not bytes
	tooLong := strings.Repeat("я", 501)
	_, err := cs.Create(alice.ID, bob.ID, &tooLong)
	assert.ErrorIs(t, err, services.ErrValidation)

	atLimit := strings.Repeat("я", 500)
	_, err = cs.Create(alice.ID, bob.ID, &atLimit)
	assert.NoError(t, err)
}

func TestCreateDuplicatePendingRequest(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	msg := "hi"
	first, err := cs.Create(alice.ID, bob.ID, &msg)
	require.NoError(t, err)
	assert.Equal(t, models.ChatRequestStatusPending, first.Status)

	// Same direction
	_, err = cs.Create(alice.ID, bob.ID, nil)
	assert.ErrorIs(t, err, services.ErrConflict)

	// Opposite direction is the same unordered pair
	_, err = cs.Create(bob.ID, alice.ID, nil)
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestPendingSlotFreedAfterResolution(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	require.NoError(t, cs.Reject(request.ID, bob.ID))

	// A terminal request no longer blocks the pair
	_, err = cs.Create(alice.ID, bob.ID, nil)
	assert.NoError(t, err)

	// The rejected request is kept as an audit trail
	var rejected models.ChatRequest
	require.NoError(t, db.First(&rejected, "id = ?", request.ID).Error)
	assert.Equal(t, models.ChatRequestStatusRejected, rejected.Status)
}

func TestAcceptProvisionsDirectChat(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	msg := "hi"
	request, err := cs.Create(alice.ID, bob.ID, &msg)
	require.NoError(t, err)

	chat, err := cs.Accept(request.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, chat)

	assert.Equal(t, models.ChatTypeDirect, chat.Type)
	require.Len(t, chat.Participants, 2)

	userIDs := map[string]bool{}
	for _, p := range chat.Participants {
		assert.Equal(t, models.RoleMember, p.Role)
		userIDs[p.UserID] = true
	}
	assert.True(t, userIDs[alice.ID])
	assert.True(t, userIDs[bob.ID])

	var accepted models.ChatRequest
	require.NoError(t, db.First(&accepted, "id = ?", request.ID).Error)
	assert.Equal(t, models.ChatRequestStatusAccepted, accepted.Status)
}

func TestAcceptByNonAddressee(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	request, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	_, err = cs.Accept(request.ID, carol.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The sender cannot accept their own request either
	_, err = cs.Accept(request.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// No chat was provisioned along the way
	var chats int64
	db.Model(&models.Chat{}).Count(&chats)
	assert.Zero(t, chats)
}

func TestAcceptUnknownRequest(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	bob := createTestUser(t, db, "bob")

	_, err := cs.Accept("no-such-request", bob.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestTerminalRequestCannotTransition(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	require.NoError(t, cs.Reject(request.ID, bob.ID))

	// Accepting a rejected request is an invalid state transition and must
	// not create a chat
	_, err = cs.Accept(request.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrInvalidState)

	err = cs.Reject(request.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrInvalidState)

	err = cs.Cancel(request.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrInvalidState)

	var chats int64
	db.Model(&models.Chat{}).Count(&chats)
	assert.Zero(t, chats)
}

func TestAcceptTwiceDoesNotDuplicateChat(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	_, err = cs.Accept(request.ID, bob.ID)
	require.NoError(t, err)

	_, err = cs.Accept(request.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrInvalidState)

	var chats int64
	db.Model(&models.Chat{}).Count(&chats)
	assert.EqualValues(t, 1, chats)
}

func TestAcceptReusesExistingDirectChat(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	firstChat, err := cs.Accept(first.ID, bob.ID)
	require.NoError(t, err)

	// A later handshake between the same pair reuses the chat
	second, err := cs.Create(bob.ID, alice.ID, nil)
	require.NoError(t, err)
	secondChat, err := cs.Accept(second.ID, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, firstChat.ID, secondChat.ID)

	var chats int64
	db.Model(&models.Chat{}).Count(&chats)
	assert.EqualValues(t, 1, chats)

	var participants int64
	db.Model(&models.ChatParticipant{}).Where("chat_id = ?", firstChat.ID).Count(&participants)
	assert.EqualValues(t, 2, participants)
}

func TestCancelOnlyBySender(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	err = cs.Cancel(request.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	require.NoError(t, cs.Cancel(request.ID, alice.ID))

	var canceled models.ChatRequest
	require.NoError(t, db.First(&canceled, "id = ?", request.ID).Error)
	assert.Equal(t, models.ChatRequestStatusCanceled, canceled.Status)
}

func TestRejectOnlyByAddressee(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	request, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)

	err = cs.Reject(request.ID, alice.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestListIncomingAndOutgoing(t *testing.T) {
	db := newTestDB(t)
	cs := services.NewChatRequestService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	fromAlice, err := cs.Create(alice.ID, bob.ID, nil)
	require.NoError(t, err)
	fromCarol, err := cs.Create(carol.ID, bob.ID, nil)
	require.NoError(t, err)
	require.NoError(t, cs.Reject(fromCarol.ID, bob.ID))

	incoming, err := cs.ListIncoming(bob.ID, nil, 1, 20)
	require.NoError(t, err)
	assert.Len(t, incoming, 2)

	pending := models.ChatRequestStatusPending
	incomingPending, err := cs.ListIncoming(bob.ID, &pending, 1, 20)
	require.NoError(t, err)
	require.Len(t, incomingPending, 1)
	assert.Equal(t, fromAlice.ID, incomingPending[0].ID)
	assert.Empty(t, incomingPending[0].FromUser.Password)

	outgoing, err := cs.ListOutgoing(alice.ID, nil, 1, 20)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, bob.ID, outgoing[0].ToUserID)
}
