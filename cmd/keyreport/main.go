// keyreport 模拟键盘固件，向运行中的可视化服务上报状态
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"keyvis/define"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var serviceURL string

	root := &cobra.Command{
		Use:          "keyreport",
		Short:        "向键盘可视化服务上报层和指示灯状态",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serviceURL, "url", "http://localhost:9099", "可视化服务的 URL")

	report := &cobra.Command{
		Use:   "report",
		Short: "上报层和指示灯状态",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]uint32{}
			for _, name := range []string{"default", "layer", "leds"} {
				raw, _ := cmd.Flags().GetString(name)
				v, err := parseMask(raw)
				if err != nil {
					return fmt.Errorf("--%s: %w", name, err)
				}
				body[jsonKey(name)] = v
			}
			return post(cmd.OutOrStdout(), serviceURL, "/api/v1/status", body)
		},
	}
	report.Flags().String("default", "0x1", "默认层位图 (支持 0x 前缀)")
	report.Flags().String("layer", "0x1", "激活层位图")
	report.Flags().String("leds", "0", "指示灯位图：1=NumLock 2=CapsLock 4=ScrollLock")

	root.AddCommand(
		report,
		&cobra.Command{
			Use:   "suspend",
			Short: "通知键盘进入挂起状态",
			RunE: func(cmd *cobra.Command, args []string) error {
				return post(cmd.OutOrStdout(), serviceURL, "/api/v1/suspend", nil)
			},
		},
		&cobra.Command{
			Use:   "resume",
			Short: "通知键盘离开挂起状态",
			RunE: func(cmd *cobra.Command, args []string) error {
				return post(cmd.OutOrStdout(), serviceURL, "/api/v1/resume", nil)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "查看调度器快照",
			RunE: func(cmd *cobra.Command, args []string) error {
				return get(cmd.OutOrStdout(), serviceURL, "/api/v1/status")
			},
		},
	)
	return root
}

func jsonKey(flag string) string {
	if flag == "default" {
		return "defaultLayer"
	}
	return flag
}

// parseMask 解析十进制、0x 十六进制或 0b 二进制的位图
func parseMask(raw string) (uint32, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(raw, "_", ""), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("无效的位图 %q", raw)
	}
	return uint32(v), nil
}

// post 发送请求到可视化服务
func post(out io.Writer, serviceURL, path string, body any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("JSON编码错误: %v", err)
		}
	}

	resp, err := httpClient.Post(strings.TrimRight(serviceURL, "/")+path, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("可视化服务请求失败: %v", err)
	}
	defer resp.Body.Close()
	return printResponse(out, resp)
}

func get(out io.Writer, serviceURL, path string) error {
	resp, err := httpClient.Get(strings.TrimRight(serviceURL, "/") + path)
	if err != nil {
		return fmt.Errorf("可视化服务请求失败: %v", err)
	}
	defer resp.Body.Close()
	return printResponse(out, resp)
}

func printResponse(out io.Writer, resp *http.Response) error {
	var apiResp define.ApiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("解析响应失败 (HTTP %d): %v", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || apiResp.Status != "success" {
		return fmt.Errorf("可视化服务返回错误: HTTP %d, %s", resp.StatusCode, apiResp.Error)
	}

	if apiResp.Message != "" {
		fmt.Fprintln(out, apiResp.Message)
	}
	if apiResp.Data != nil {
		data, _ := json.MarshalIndent(apiResp.Data, "", "  ")
		fmt.Fprintln(out, string(data))
	}
	return nil
}
