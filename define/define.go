package define

import "time"

// 配置结构体
type Config struct {
	WebPort string        `toml:"web_port"`
	Side    string        `toml:"side"`   // 本机是键盘的哪一半："left" 或 "right"
	Policy  string        `toml:"policy"` // 动画策略名称
	DryRun  bool          `toml:"dry_run"`
	Debug   bool          `toml:"debug"`
	Link    LinkConfig    `toml:"link"`
	Display DisplayConfig `toml:"display"`
}

// 对端链路配置
type LinkConfig struct {
	PeerURL       string `toml:"peer_url"` // 为空表示单机运行
	Role          string `toml:"role"`     // "master" 推送状态，"slave" 接收状态
	TimeoutMs     int    `toml:"timeout_ms"`
	PeerTimeoutMs int    `toml:"peer_timeout_ms"`
}

// 显示配置
type DisplayConfig struct {
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	Backlight  bool `toml:"backlight"`
	ShowLayers bool `toml:"show_layers"`
}

// API 响应结构体
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Timeout 单次请求超时
func (l LinkConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutMs) * time.Millisecond
}

// PeerTimeout 对端超时
func (l LinkConfig) PeerTimeout() time.Duration {
	return time.Duration(l.PeerTimeoutMs) * time.Millisecond
}
