package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"zetchat-api/models"
	"zetchat-api/services"
	"zetchat-api/utils"
)

type MessageController struct {
	messageService *services.MessageService
}

func NewMessageController(messageService *services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

type SendMessageRequest struct {
	Content string         `json:"content"`
	Type    string         `json:"type"`
	Meta    models.MetaMap `json:"meta"`
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageType := models.MessageType(req.Type)
	if req.Type == "" {
		messageType = models.MessageTypeText
	}

	message, err := mc.messageService.Send(chatID, userID, req.Content, messageType, req.Meta)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Message sent", message)
}

func (mc *MessageController) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	beforeID := c.Query("before")
	afterID := c.Query("after")

	messages, err := mc.messageService.List(chatID, userID, limit, beforeID, afterID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type MarkReadRequest struct {
	UpToMessageID string `json:"up_to_message_id" binding:"required"`
}

func (mc *MessageController) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	marked, err := mc.messageService.MarkRead(chatID, userID, req.UpToMessageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Messages marked as read",
		"marked_count": marked,
	})
}

func (mc *MessageController) GetUnreadCount(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	count, err := mc.messageService.UnreadCount(chatID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
