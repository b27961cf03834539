package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"keyvis/communication"
)

// handleLinkStatus 接收对端发来的状态记录
func (s *Server) handleLinkStatus(c *gin.Context) {
	if s.link == nil {
		c.JSON(http.StatusConflict, ApiResponse{
			Status: "error",
			Error:  "未配置对端链路",
		})
		return
	}

	var msg communication.LinkMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "无效的状态记录：" + err.Error(),
		})
		return
	}

	if err := s.link.Deliver(msg); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, communication.ErrStaleMessage) || errors.Is(err, communication.ErrOwnMessage) {
			status = http.StatusConflict
		}
		c.JSON(status, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}

	// 只有以对端为准时才采用收到的状态
	changed := false
	if s.link.Connected() {
		changed = s.syncer.ReceiveRemote(msg.Status)
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   LinkDeliveryResponse{Accepted: true, Changed: changed},
	})
}
