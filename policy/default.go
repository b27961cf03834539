package policy

import (
	"log"
	"time"

	"keyvis/define"
	"keyvis/visualizer"
)

// 默认策略使用的时长
const (
	StartupFade = time.Second
	LayerFade   = 200 * time.Millisecond
	SuspendFade = 500 * time.Millisecond
)

// DefaultPolicy 启动时淡入背光，切换层时按层变换颜色并显示层信息，
// 挂起时淡出并关闭屏幕。
type DefaultPolicy struct {
	side    define.Side
	display define.DisplayConfig

	startup *visualizer.KeyframeAnimation
	layer   *visualizer.KeyframeAnimation
	suspend *visualizer.KeyframeAnimation
}

// NewDefaultPolicy 创建默认策略
func NewDefaultPolicy(cfg *define.Config) visualizer.Policy {
	p := &DefaultPolicy{
		side:    define.SideFromString(cfg.Side),
		display: cfg.Display,
		startup: visualizer.NewKeyframeAnimation("startup", false,
			visualizer.Frame{Duration: 0, Effect: visualizer.EnableLCDAndBacklight},
			visualizer.Frame{Duration: 0, Effect: visualizer.DisplayLayerText},
			visualizer.Frame{Duration: StartupFade, Effect: visualizer.AnimateBacklightColor},
			visualizer.Frame{Duration: 0, Effect: visualizer.EnableVisualization},
		),
		suspend: visualizer.NewKeyframeAnimation("suspend", false,
			visualizer.Frame{Duration: SuspendFade, Effect: visualizer.AnimateBacklightColor},
			visualizer.Frame{Duration: 0, Effect: visualizer.DisableLCDAndBacklight},
		),
	}

	display := visualizer.DisplayLayerText
	if cfg.Display.ShowLayers {
		display = visualizer.DisplayLayerBitmap
	}
	p.layer = visualizer.NewKeyframeAnimation("layer", false,
		visualizer.Frame{Duration: 0, Effect: display},
		visualizer.Frame{Duration: LayerFade, Effect: visualizer.AnimateBacklightColor},
	)
	return p
}

func (p *DefaultPolicy) Init(s *visualizer.State) {
	for _, anim := range []*visualizer.KeyframeAnimation{p.startup, p.layer, p.suspend} {
		s.Animations.Register(anim)
	}
	s.CurrentColor = BlackColor
	p.playStartup(s)
	log.Printf("🎨 默认策略已加载 (%s)", p.side)
}

func (p *DefaultPolicy) StatusUpdate(s *visualizer.State) {
	preset := PresetFor(ActiveLayer(s.Status))
	s.TargetColor = withBacklight(preset.Color, p.display)
	s.LayerText = layerText(s.Status)

	// 重新开始渐变，起点是当前颜色
	s.Stop(p.layer)
	s.Start(p.layer)
}

func (p *DefaultPolicy) Suspend(s *visualizer.State) {
	s.TargetColor = BlackColor
	s.Start(p.suspend)
}

func (p *DefaultPolicy) Resume(s *visualizer.State) {
	s.CurrentColor = BlackColor
	p.playStartup(s)
}

func (p *DefaultPolicy) playStartup(s *visualizer.State) {
	s.TargetColor = withBacklight(StartupColor, p.display)
	s.LayerText = "Startup"
	s.Start(p.startup)
}
