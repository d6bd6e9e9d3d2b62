package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zetchat-api/models"
	"zetchat-api/services"
	"zetchat-api/utils"
)

type ChatController struct {
	chatService *services.ChatService
}

func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

func (cc *ChatController) GetChats(c *gin.Context) {
	userID := c.GetString("user_id")

	chats, err := cc.chatService.ListChats(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

type CreateGroupChatRequest struct {
	MemberIDs []string `json:"member_ids"`
}

func (cc *ChatController) CreateGroupChat(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateGroupChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := cc.chatService.CreateGroupChat(userID, req.MemberIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Group chat created", chat)
}

func (cc *ChatController) GetParticipants(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	participants, err := cc.chatService.ListParticipants(chatID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

type AddParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

func (cc *ChatController) AddParticipant(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")

	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.ParticipantRole(req.Role)
	if req.Role == "" {
		role = models.RoleMember
	}

	participant, err := cc.chatService.AddParticipant(chatID, req.UserID, role, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Participant added", participant)
}

func (cc *ChatController) RemoveParticipant(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")
	targetUserID := c.Param("user_id")

	if err := cc.chatService.RemoveParticipant(chatID, targetUserID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Participant removed", nil)
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (cc *ChatController) ChangeRole(c *gin.Context) {
	userID := c.GetString("user_id")
	chatID := c.Param("id")
	targetUserID := c.Param("user_id")

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.chatService.ChangeRole(chatID, targetUserID, models.ParticipantRole(req.Role), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Role updated", nil)
}
