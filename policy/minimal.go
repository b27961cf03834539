package policy

import (
	"keyvis/define"
	"keyvis/visualizer"
)

// MinimalPolicy 没有渐变，立即启用可视化，切换层时直接设置颜色并显示层名称
type MinimalPolicy struct {
	display define.DisplayConfig

	startup *visualizer.KeyframeAnimation
	layer   *visualizer.KeyframeAnimation
	suspend *visualizer.KeyframeAnimation
}

// NewMinimalPolicy 创建简单策略
func NewMinimalPolicy(cfg *define.Config) visualizer.Policy {
	return &MinimalPolicy{
		display: cfg.Display,
		startup: visualizer.NewKeyframeAnimation("startup", false,
			visualizer.Frame{Duration: 0, Effect: visualizer.EnableLCDAndBacklight},
			visualizer.Frame{Duration: 0, Effect: visualizer.EnableVisualization},
		),
		layer: visualizer.NewKeyframeAnimation("layer", false,
			visualizer.Frame{Duration: 0, Effect: visualizer.SetBacklightColor},
			visualizer.Frame{Duration: 0, Effect: visualizer.DisplayLayerText},
		),
		suspend: visualizer.NewKeyframeAnimation("suspend", false,
			visualizer.Frame{Duration: 0, Effect: visualizer.DisableLCDAndBacklight},
		),
	}
}

func (p *MinimalPolicy) Init(s *visualizer.State) {
	for _, anim := range []*visualizer.KeyframeAnimation{p.startup, p.layer, p.suspend} {
		s.Animations.Register(anim)
	}
	s.CurrentColor = withBacklight(StartupColor, p.display)
	s.Start(p.startup)
}

func (p *MinimalPolicy) StatusUpdate(s *visualizer.State) {
	s.TargetColor = withBacklight(PresetFor(ActiveLayer(s.Status)).Color, p.display)
	s.LayerText = layerText(s.Status)
	s.Stop(p.layer)
	s.Start(p.layer)
}

func (p *MinimalPolicy) Suspend(s *visualizer.State) { s.Start(p.suspend) }

func (p *MinimalPolicy) Resume(s *visualizer.State) { s.Start(p.startup) }
