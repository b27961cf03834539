package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"keyvis/api"
	"keyvis/cli"
	"keyvis/communication"
	"keyvis/config"
	"keyvis/define"
	"keyvis/policy"
	"keyvis/render"
	"keyvis/visualizer"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags cli.Flags

	root := &cobra.Command{
		Use:          "keyvis",
		Short:        "分体键盘的屏幕和背光可视化服务",
		Version:      api.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, &flags)
		},
	}
	cli.BindFlags(root, &flags)

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动可视化服务 (默认)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd, &flags)
			},
		},
		configCmd(&flags),
	)
	return root
}

func configCmd(flags *cli.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "管理配置文件",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init [path]",
			Short: "写入默认配置文件",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := config.DefaultFile
				if len(args) == 1 {
					path = args[0]
				}
				if err := config.InitFile(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "已写入 %s\n", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "打印合并之后的配置",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := cli.ParseConfig(cmd, flags)
				if err != nil {
					return err
				}
				return config.Encode(cmd.OutOrStdout(), cfg)
			},
		},
	)
	return cmd
}

// 打印服务配置
func logConfig(cfg *define.Config) {
	log.Printf("🔧 服务配置：")
	log.Printf("   - Web 端口: %s", cfg.WebPort)
	log.Printf("   - 键盘: %s", define.SideFromString(cfg.Side))
	log.Printf("   - 动画策略: %s (可用: %v)", cfg.Policy, policy.GetSupportedPolicies())
	if cfg.Link.PeerURL != "" {
		log.Printf("   - 对端: %s (%s)", cfg.Link.PeerURL, cfg.Link.Role)
	} else {
		log.Printf("   - 对端: 未配置，单机运行")
	}
	if cfg.DryRun {
		log.Printf("   - dry-run: 只记录绘制调用")
	}
}

func serve(cmd *cobra.Command, flags *cli.Flags) error {
	cfg, err := cli.ParseConfig(cmd, flags)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("❌ 配置无效: %v", err)
	}
	config.Config = cfg

	policy.RegisterPolicies()
	p, err := policy.CreatePolicy(cfg.Policy, cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	log.Printf("🚀 启动键盘可视化服务")
	logConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	side := define.SideFromString(cfg.Side)
	var renderer visualizer.Renderer
	if cfg.DryRun {
		renderer = render.NewRecorder(cfg.Debug)
	} else {
		renderer = render.NewTerminalRenderer(os.Stdout, side.String(), cfg.Display)
	}

	cell := visualizer.NewStatusCell()
	wake := visualizer.NewSignal()

	// 接口变量单独保存，避免把 nil 指针包装成非 nil 的接口
	var link *communication.BridgeLink
	var peer visualizer.Link
	if cfg.Link.PeerURL != "" {
		link = communication.NewBridgeLink(
			communication.NewBridgeClient(cfg.Link.PeerURL, cfg.Link.Timeout()),
			communication.LinkOptions{
				Side:        side,
				Role:        cfg.Link.Role,
				Timeout:     cfg.Link.Timeout(),
				PeerTimeout: cfg.Link.PeerTimeout(),
			},
		)
		peer = link
		go link.Run(ctx)
		go func() {
			if err := link.Ping(ctx); err != nil {
				log.Printf("⚠️ 对端暂不可用: %v", err)
			} else {
				log.Printf("✅ 已连接到对端: %s", cfg.Link.PeerURL)
			}
		}()
	}

	scheduler := visualizer.NewScheduler(visualizer.SchedulerConfig{
		Policy:   p,
		Renderer: renderer,
		Cell:     cell,
		Wake:     wake,
		Debug:    cfg.Debug,
	})
	syncer := visualizer.NewSynchronizer(cell, wake, peer, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Run(ctx)
	}()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.NewServer(scheduler, syncer, link, nil).SetupRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.WebPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ 关闭 Web 服务失败: %v", err)
		}
	}()

	log.Printf("🌐 可视化服务运行在 http://localhost:%s", cfg.WebPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-done
		return fmt.Errorf("服务启动失败: %w", err)
	}

	<-done
	log.Printf("👋 服务已退出")
	return nil
}
