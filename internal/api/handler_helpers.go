package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if verr, ok := internal.AsValidation(err); ok {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
		c.JSON(http.StatusBadRequest, response.ValidationFailed(msg, verr.Fields))
		return
	}
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}
