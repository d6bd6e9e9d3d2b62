package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"zetchat-api/models"
	"zetchat-api/services"
)

type UserController struct {
	db            *gorm.DB
	followService *services.FollowService
}

func NewUserController(db *gorm.DB, followService *services.FollowService) *UserController {
	return &UserController{
		db:            db,
		followService: followService,
	}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Avatar *string `json:"avatar"`
		Banner *string `json:"banner"`
		Bio    *string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Banner != nil {
		updates["banner"] = *req.Banner
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) > 0 {
		if err := uc.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

func (uc *UserController) GetUser(c *gin.Context) {
	requesterID := c.GetString("user_id")
	targetUserID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	isFollowing, err := uc.followService.IsFollowing(requesterID, targetUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"is_following": isFollowing,
	})
}

func (uc *UserController) FollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("id")

	if err := uc.followService.Follow(userID, targetUserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully followed user"})
}

func (uc *UserController) UnfollowUser(c *gin.Context) {
	userID := c.GetString("user_id")
	targetUserID := c.Param("id")

	if err := uc.followService.Unfollow(userID, targetUserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully unfollowed user"})
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	followers, err := uc.followService.ListFollowers(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followers": followers})
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		userID = c.GetString("user_id")
	}

	following, err := uc.followService.ListFollowing(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"following": following})
}
