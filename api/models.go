package api

import (
	"time"

	"keyvis/communication"
	"keyvis/define"
)

// ===== 通用响应模型 =====

// ApiResponse 统一 API 响应格式
type ApiResponse = define.ApiResponse

// ===== 状态相关模型 =====

// StatusReportRequest 键盘上报的可观测状态
type StatusReportRequest struct {
	DefaultLayer uint32 `json:"defaultLayer"`
	Layer        uint32 `json:"layer"`
	LEDs         uint32 `json:"leds"`
}

// LinkDeliveryResponse 对端记录的处理结果
type LinkDeliveryResponse struct {
	Accepted bool `json:"accepted"`
	Changed  bool `json:"changed"`
}

// ===== 动画控制相关模型 =====

// AnimationListResponse 动画列表响应
type AnimationListResponse struct {
	Registered []string `json:"registered"`
	Active     []string `json:"active"`
	Total      int      `json:"total"`
}

// ===== 系统管理相关模型 =====

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Passes    uint64    `json:"passes"`
}

// SystemInfoResponse 系统信息响应
type SystemInfoResponse struct {
	Version           string                   `json:"version"`
	Side              string                   `json:"side"`
	Policy            string                   `json:"policy"`
	SupportedPolicies []string                 `json:"supportedPolicies"`
	DryRun            bool                     `json:"dryRun"`
	Uptime            string                   `json:"uptime"`
	Link              *communication.LinkStats `json:"link,omitempty"`
}
