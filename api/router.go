package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"keyvis/communication"
	"keyvis/config"
	"keyvis/define"
	"keyvis/visualizer"
)

// Version 服务版本
const Version = "1.0.0"

// Server API 服务器结构体
type Server struct {
	scheduler *visualizer.Scheduler
	syncer    *visualizer.Synchronizer
	link      *communication.BridgeLink // 未配置对端时为 nil
	config    *define.Config
	startTime time.Time
	version   string
}

// NewServer 创建新的 API 服务器实例
func NewServer(scheduler *visualizer.Scheduler, syncer *visualizer.Synchronizer, link *communication.BridgeLink, cfg *define.Config) *Server {
	// 未指定时使用全局配置
	if cfg == nil {
		cfg = config.Config
	}
	if cfg == nil {
		cfg = &define.Config{}
	}
	return &Server{
		scheduler: scheduler,
		syncer:    syncer,
		link:      link,
		config:    cfg,
		startTime: time.Now(),
		version:   Version,
	}
}

// SetupRoutes 设置 API 路由
func (s *Server) SetupRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	{
		// 键盘状态路由
		v1.POST("/status", s.handleReportStatus) // 上报层和指示灯状态
		v1.GET("/status", s.handleGetStatus)     // 获取调度器快照
		v1.POST("/suspend", s.handleSuspend)     // 键盘挂起
		v1.POST("/resume", s.handleResume)       // 键盘唤醒

		// 对端链路路由
		v1.POST("/link/status", s.handleLinkStatus) // 接收对端状态记录

		// 动画控制路由
		animations := v1.Group("/animations")
		{
			animations.GET("", s.handleGetAnimations)               // 获取动画列表
			animations.POST("/stop", s.handleStopAllAnimations)     // 停止所有动画
			animations.POST("/:name/start", s.handleStartAnimation) // 启动动画
			animations.POST("/:name/stop", s.handleStopAnimation)   // 停止动画
		}

		// 系统管理路由
		system := v1.Group("/system")
		{
			system.GET("/health", s.handleHealthCheck) // 健康检查
			system.GET("/info", s.handleSystemInfo)    // 系统信息
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
