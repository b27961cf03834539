package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"keyvis/define"
	"keyvis/policy"
)

// handleHealthCheck 健康检查
func (s *Server) handleHealthCheck(c *gin.Context) {
	status := "healthy"
	if s.scheduler == nil || s.syncer == nil {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   s.version,
	}
	if s.scheduler != nil {
		response.Passes = s.scheduler.Snapshot().Passes
	}

	if status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, ApiResponse{
			Status: "error",
			Error:  "可视化服务未就绪",
			Data:   response,
		})
		return
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   response,
	})
}

// handleSystemInfo 获取系统信息
func (s *Server) handleSystemInfo(c *gin.Context) {
	response := SystemInfoResponse{
		Version:           s.version,
		Side:              define.SideFromString(s.config.Side).String(),
		Policy:            s.config.Policy,
		SupportedPolicies: policy.GetSupportedPolicies(),
		DryRun:            s.config.DryRun,
		Uptime:            time.Since(s.startTime).Round(time.Second).String(),
	}
	if s.link != nil {
		stats := s.link.Stats()
		response.Link = &stats
	}

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   response,
	})
}
