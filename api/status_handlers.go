package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleReportStatus 上报键盘状态
func (s *Server) handleReportStatus(c *gin.Context) {
	var req StatusReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "无效的状态上报请求：" + err.Error(),
		})
		return
	}

	s.syncer.ReportStatus(req.DefaultLayer, req.Layer, req.LEDs)

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "状态已上报",
		Data:    s.syncer.Cell().Read(),
	})
}

// handleGetStatus 获取调度器最近一轮的快照
func (s *Server) handleGetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   s.scheduler.Snapshot(),
	})
}

// handleSuspend 键盘进入挂起状态
func (s *Server) handleSuspend(c *gin.Context) {
	s.syncer.Suspend()
	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "键盘已挂起",
	})
}

// handleResume 键盘离开挂起状态
func (s *Server) handleResume(c *gin.Context) {
	s.syncer.Resume()
	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "键盘已唤醒",
	})
}
