package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"zetchat-api/services"
	"zetchat-api/utils"
)

// respondServiceError maps service error kinds to transport status codes.
// Anything unrecognized is logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidOperand):
		utils.SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.SendError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInvalidState):
		utils.SendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidOperation):
		utils.SendError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("unexpected service error: %v", err)
		utils.SendError(c, http.StatusInternalServerError, "Internal server error")
	}
}
