package handler

import (
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

func respondSuccess(c *gin.Context, status int, message string) {
	c.JSON(status, SuccessResponse{
		Success: true,
		Message: message,
	})
}
