package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"zetchat-api/models"
)

type AdminController struct {
	db *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

func (ac *AdminController) GetStats(c *gin.Context) {
	var totalUsers, onlineUsers, totalChats, totalMessages, pendingVerifications, newUsersToday int64

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&totalUsers, ac.db.Model(&models.User{})},
		{&onlineUsers, ac.db.Model(&models.User{}).Where("status = ?", models.UserStatusOnline)},
		{&totalChats, ac.db.Model(&models.Chat{})},
		{&totalMessages, ac.db.Model(&models.Message{})},
		{&pendingVerifications, ac.db.Model(&models.User{}).Where("is_verified = ?", false)},
		{&newUsersToday, ac.db.Model(&models.User{}).Where("created_at >= ?", time.Now().Add(-24*time.Hour))},
	}
	for _, q := range counts {
		if err := q.query.Count(q.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":           totalUsers,
		"online_users":          onlineUsers,
		"total_chats":           totalChats,
		"total_messages":        totalMessages,
		"pending_verifications": pendingVerifications,
		"new_users_today":       newUsersToday,
		"updated_at":            time.Now(),
	})
}

func (ac *AdminController) GetPendingVerifications(c *gin.Context) {
	var users []models.User
	if err := ac.db.Select("id", "username", "email", "avatar", "created_at").
		Where("is_verified = ?", false).
		Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending verifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (ac *AdminController) VerifyUser(c *gin.Context) {
	targetUserID := c.Param("user_id")

	var user models.User
	if err := ac.db.First(&user, "id = ?", targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{
		"is_verified":          true,
		"verification_code":    nil,
		"verification_expires": nil,
	}
	if err := ac.db.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User verified",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
