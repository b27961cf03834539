package cli

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"keyvis/config"
	"keyvis/define"
)

// Flags 命令行参数
type Flags struct {
	ConfigPath string
	Port       string
	Peer       string
	Role       string
	Side       string
	Policy     string
	DryRun     bool
	Debug      bool
}

// BindFlags 在命令上注册全局参数
func BindFlags(cmd *cobra.Command, f *Flags) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.ConfigPath, "config", "c", "", "配置文件路径 (TOML)")
	flags.StringVar(&f.Port, "port", "", "Web 服务的端口")
	flags.StringVar(&f.Peer, "peer", "", "另一半键盘服务的 URL，为空表示单机运行")
	flags.StringVar(&f.Role, "role", "", "链路角色：master 或 slave")
	flags.StringVar(&f.Side, "side", "", "本机是键盘的哪一半：left 或 right")
	flags.StringVar(&f.Policy, "policy", "", "动画策略名称")
	flags.BoolVar(&f.DryRun, "dry-run", false, "不驱动终端显示，只记录绘制调用")
	flags.BoolVar(&f.Debug, "debug", false, "打印每一轮调度的细节")
}

// ParseConfig 解析配置。
// 优先级从低到高：默认值、配置文件、命令行参数、环境变量。
func ParseConfig(cmd *cobra.Command, f *Flags) (*define.Config, error) {
	path := f.ConfigPath
	if envPath := os.Getenv("KEYVIS_CONFIG"); envPath != "" {
		path = envPath
	}
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("📄 已加载配置文件: %s", path)
	}

	// 命令行参数覆盖配置文件
	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.WebPort = f.Port
	}
	if changed("peer") {
		cfg.Link.PeerURL = f.Peer
	}
	if changed("role") {
		cfg.Link.Role = f.Role
	}
	if changed("side") {
		cfg.Side = f.Side
	}
	if changed("policy") {
		cfg.Policy = f.Policy
	}
	if changed("dry-run") {
		cfg.DryRun = f.DryRun
	}
	if changed("debug") {
		cfg.Debug = f.Debug
	}

	// 环境变量覆盖命令行参数
	if envPort := os.Getenv("KEYVIS_WEB_PORT"); envPort != "" {
		cfg.WebPort = envPort
	}
	if envPeer := os.Getenv("KEYVIS_PEER_URL"); envPeer != "" {
		cfg.Link.PeerURL = envPeer
	}
	if envRole := os.Getenv("KEYVIS_ROLE"); envRole != "" {
		cfg.Link.Role = envRole
	}
	if envSide := os.Getenv("KEYVIS_SIDE"); envSide != "" {
		cfg.Side = envSide
	}
	if envPolicy := os.Getenv("KEYVIS_POLICY"); envPolicy != "" {
		cfg.Policy = envPolicy
	}
	if v, ok := envBool("KEYVIS_DRY_RUN"); ok {
		cfg.DryRun = v
	}
	if v, ok := envBool("KEYVIS_DEBUG"); ok {
		cfg.Debug = v
	}

	return cfg, nil
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️ 环境变量 %s 的值 %q 无效，已忽略", key, raw)
		return false, false
	}
	return v, true
}
