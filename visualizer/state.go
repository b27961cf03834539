package visualizer

import "keyvis/define"

// 字体名称
const (
	FontFixed5x8         = "fixed_5x8"
	FontDejaVuSansBold12 = "DejaVuSansBold12"
)

// State 调度循环每一轮传给策略和帧效果的状态
type State struct {
	Status define.KeyboardStatus

	CurrentColor define.Color
	PrevColor    define.Color // 颜色渐变的起点
	TargetColor  define.Color // 颜色渐变的终点

	LayerText string

	FontFixed  Font // 5x8 等宽字体
	FontBold   Font // 12 号粗体
	Renderer   Renderer
	Animations *AnimationEngine

	enabled bool
}

// Enable 启用可视化，之后的状态变化才会交给策略处理
func (s *State) Enable() { s.enabled = true }

// Disable 禁用可视化
func (s *State) Disable() { s.enabled = false }

// Enabled 可视化是否启用
func (s *State) Enabled() bool { return s.enabled }

// Start 启动动画的便捷方法
func (s *State) Start(anim *KeyframeAnimation) { s.Animations.Start(anim) }

// Stop 停止动画的便捷方法
func (s *State) Stop(anim *KeyframeAnimation) { s.Animations.Stop(anim) }
