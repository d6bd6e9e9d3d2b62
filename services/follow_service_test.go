package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetchat-api/services"
)

func TestFollowYourself(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")

	err := fs.Follow(alice.ID, alice.ID)

	assert.ErrorIs(t, err, services.ErrInvalidOperand)
}

func TestFollowUnknownUser(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")

	err := fs.Follow(alice.ID, "no-such-user")

	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestFollowDuplicateIsConflict(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, fs.Follow(alice.ID, bob.ID))

	err := fs.Follow(alice.ID, bob.ID)
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestFollowIsDirected(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, fs.Follow(alice.ID, bob.ID))

	following, err := fs.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := fs.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	// The opposite direction is a separate edge, not a duplicate
	require.NoError(t, fs.Follow(bob.ID, alice.ID))
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	assert.NoError(t, fs.Unfollow(alice.ID, bob.ID))
}

func TestUnfollowRemovesEdge(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, fs.Follow(alice.ID, bob.ID))
	require.NoError(t, fs.Unfollow(alice.ID, bob.ID))

	following, err := fs.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Edge can be recreated after removal
	assert.NoError(t, fs.Follow(alice.ID, bob.ID))
}

func TestListFollowersAndFollowing(t *testing.T) {
	db := newTestDB(t)
	fs := services.NewFollowService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, fs.Follow(bob.ID, alice.ID))
	require.NoError(t, fs.Follow(carol.ID, alice.ID))
	require.NoError(t, fs.Follow(alice.ID, bob.ID))

	followers, err := fs.ListFollowers(alice.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	for _, follower := range followers {
		assert.Empty(t, follower.Password)
	}

	following, err := fs.ListFollowing(alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)
}
