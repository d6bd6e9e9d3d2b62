package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"zetchat-api/models"
)

type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow creates the directed edge follower -> target. Duplicate follows are
// rejected by the unique index on (follower_id, following_id), so concurrent
// calls cannot slip past an existence check.
func (fs *FollowService) Follow(followerID, targetID string) error {
	if followerID == targetID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidOperand)
	}

	var target models.User
	if err := fs.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	follow := models.Follow{
		FollowerID:  followerID,
		FollowingID: targetID,
	}

	if err := fs.db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: already following this user", ErrConflict)
		}
		return err
	}

	return nil
}

// Unfollow removes the edge if present. Removing a nonexistent edge is a
// no-op success, not an error.
func (fs *FollowService) Unfollow(followerID, targetID string) error {
	return fs.db.Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Delete(&models.Follow{}).Error
}

func (fs *FollowService) IsFollowing(followerID, targetID string) (bool, error) {
	var count int64
	err := fs.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Count(&count).Error
	return count > 0, err
}

func (fs *FollowService) ListFollowers(userID string) ([]models.User, error) {
	var follows []models.Follow
	if err := fs.db.Preload("Follower").Where("following_id = ?", userID).
		Order("created_at DESC").Find(&follows).Error; err != nil {
		return nil, err
	}

	followers := make([]models.User, 0, len(follows))
	for _, follow := range follows {
		follow.Follower.Password = ""
		followers = append(followers, follow.Follower)
	}

	return followers, nil
}

func (fs *FollowService) ListFollowing(userID string) ([]models.User, error) {
	var follows []models.Follow
	if err := fs.db.Preload("Following").Where("follower_id = ?", userID).
		Order("created_at DESC").Find(&follows).Error; err != nil {
		return nil, err
	}

	following := make([]models.User, 0, len(follows))
	for _, follow := range follows {
		follow.Following.Password = ""
		following = append(following, follow.Following)
	}

	return following, nil
}
