package communication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"keyvis/define"
)

// LinkMessage 两半键盘之间传递的状态记录
type LinkMessage struct {
	Side     string                `json:"side"`     // 发送方是哪一半
	Boot     int64                 `json:"boot"`     // 发送方每次启动生成的标识，变化表示对端已重启
	Sequence uint64                `json:"sequence"` // 发送方在本次启动内递增的序号，用于丢弃过期记录
	Status   define.KeyboardStatus `json:"status"`
}

// Communicator 定义了与另一半键盘服务通信的接口
type Communicator interface {
	// SendStatus 将状态记录通过 HTTP POST 请求发送到对端
	SendStatus(ctx context.Context, msg LinkMessage) error

	// Ping 检查对端服务是否可用
	Ping(ctx context.Context) error

	// SetServiceURL 设置对端服务的 URL
	SetServiceURL(url string)

	// ServiceURL 返回对端服务的 URL
	ServiceURL() string
}

// BridgeClient 实现与对端服务的 HTTP 通信
type BridgeClient struct {
	serviceURL string
	client     *http.Client
}

func NewBridgeClient(serviceURL string, timeout time.Duration) Communicator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BridgeClient{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		client:     &http.Client{Timeout: timeout},
	}
}

func (c *BridgeClient) SendStatus(ctx context.Context, msg LinkMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化消息失败：%w", err)
	}

	url := fmt.Sprintf("%s/api/v1/link/status", c.serviceURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("创建 HTTP 请求失败：%w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送 HTTP 请求失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("对端服务返回错误: %d, %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *BridgeClient) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v1/system/health", c.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("创建 HTTP 请求失败：%w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送 HTTP 请求失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("对端服务返回错误：%d", resp.StatusCode)
	}

	var healthResp define.ApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("解析健康检查响应失败：%w", err)
	}
	if healthResp.Status != "success" {
		return fmt.Errorf("对端服务不健康：%s", healthResp.Error)
	}
	return nil
}

func (c *BridgeClient) SetServiceURL(url string) { c.serviceURL = strings.TrimRight(url, "/") }

func (c *BridgeClient) ServiceURL() string { return c.serviceURL }
