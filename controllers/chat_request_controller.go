package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"zetchat-api/models"
	"zetchat-api/services"
	"zetchat-api/utils"
)

type ChatRequestController struct {
	requestService *services.ChatRequestService
}

func NewChatRequestController(requestService *services.ChatRequestService) *ChatRequestController {
	return &ChatRequestController{requestService: requestService}
}

type CreateChatRequestRequest struct {
	ToUserID string  `json:"to_user_id" binding:"required"`
	Message  *string `json:"message"`
}

func (cc *ChatRequestController) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateChatRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := cc.requestService.Create(userID, req.ToUserID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendCreated(c, "Chat request sent", request)
}

func (cc *ChatRequestController) Accept(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := c.Param("id")

	chat, err := cc.requestService.Accept(requestID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Chat request accepted", chat)
}

func (cc *ChatRequestController) Reject(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := c.Param("id")

	if err := cc.requestService.Reject(requestID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Chat request rejected", nil)
}

func (cc *ChatRequestController) Cancel(c *gin.Context) {
	userID := c.GetString("user_id")
	requestID := c.Param("id")

	if err := cc.requestService.Cancel(requestID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SendSuccess(c, "Chat request canceled", nil)
}

func (cc *ChatRequestController) GetIncoming(c *gin.Context) {
	cc.listRequests(c, cc.requestService.ListIncoming)
}

func (cc *ChatRequestController) GetOutgoing(c *gin.Context) {
	cc.listRequests(c, cc.requestService.ListOutgoing)
}

func (cc *ChatRequestController) listRequests(c *gin.Context, list func(string, *models.ChatRequestStatus, int, int) ([]models.ChatRequest, error)) {
	userID := c.GetString("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var status *models.ChatRequestStatus
	if raw := c.Query("status"); raw != "" {
		parsed := models.ChatRequestStatus(raw)
		switch parsed {
		case models.ChatRequestStatusPending, models.ChatRequestStatusAccepted,
			models.ChatRequestStatusRejected, models.ChatRequestStatusCanceled:
			status = &parsed
		default:
			utils.SendValidationError(c, "Unknown status filter")
			return
		}
	}

	requests, err := list(userID, status, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
