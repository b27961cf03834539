package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"keyvis/define"
)

// DefaultFile 默认配置文件名
const DefaultFile = "keyvis.toml"

var Config *define.Config

// Defaults 返回默认配置
func Defaults() define.Config {
	return define.Config{
		WebPort: "9099",
		Side:    "left",
		Policy:  "default",
		Link: define.LinkConfig{
			Role:          define.ROLE_MASTER,
			TimeoutMs:     500,
			PeerTimeoutMs: 3000,
		},
		Display: define.DisplayConfig{
			Width:      128,
			Height:     32,
			Backlight:  true,
			ShowLayers: true,
		},
	}
}

// Load 读取 TOML 配置文件，未出现的字段使用默认值。
// 路径为空时返回默认配置；文件中出现未知字段时返回错误。
func Load(path string) (*define.Config, error) {
	cfg := Defaults()
	if path == "" {
		return &cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败：%w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("配置文件 %s 中有未知字段: %s", path, strings.Join(keys, ", "))
	}

	return &cfg, nil
}

// Validate 检查配置，返回所有发现的问题
func Validate(cfg *define.Config) error {
	var errs []error

	if port, err := strconv.Atoi(cfg.WebPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("web_port 必须是 1-65535 之间的端口号: %q", cfg.WebPort))
	}
	if define.SideFromString(cfg.Side) == define.SIDE_UNKNOWN {
		errs = append(errs, fmt.Errorf("side 必须是 \"left\" 或 \"right\": %q", cfg.Side))
	}
	if cfg.Policy == "" {
		errs = append(errs, errors.New("policy 不能为空"))
	}

	if cfg.Link.Role != define.ROLE_MASTER && cfg.Link.Role != define.ROLE_SLAVE {
		errs = append(errs, fmt.Errorf("link.role 必须是 %q 或 %q: %q", define.ROLE_MASTER, define.ROLE_SLAVE, cfg.Link.Role))
	}
	if cfg.Link.PeerURL != "" {
		u, err := url.ParseRequestURI(cfg.Link.PeerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("link.peer_url 必须是有效的 http 或 https 地址: %q", cfg.Link.PeerURL))
		}
	}
	if cfg.Link.TimeoutMs <= 0 {
		errs = append(errs, errors.New("link.timeout_ms 必须大于 0"))
	}
	if cfg.Link.PeerTimeoutMs <= 0 {
		errs = append(errs, errors.New("link.peer_timeout_ms 必须大于 0"))
	}

	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		errs = append(errs, fmt.Errorf("display 尺寸必须大于 0: %dx%d", cfg.Display.Width, cfg.Display.Height))
	}

	return errors.Join(errs...)
}

// Encode 把配置以 TOML 格式写到 w
func Encode(w io.Writer, cfg *define.Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("序列化配置失败：%w", err)
	}
	return nil
}

// SaveConfig 保存配置到文件
func SaveConfig(cfg *define.Config, path string) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("保存配置文件失败：%w", err)
	}
	return nil
}

// InitFile 在指定路径写入默认配置，文件已存在时返回错误
func InitFile(path string) error {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("配置文件 %s 已存在", path)
	}
	cfg := Defaults()
	return SaveConfig(&cfg, path)
}
