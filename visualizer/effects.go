package visualizer

import (
	"time"

	"keyvis/define"
)

// Effect 帧效果。返回 true 表示希望在帧的名义时长结束前被再次调用（连续效果），
// 返回 false 表示只执行一次。
type Effect interface {
	Apply(a *KeyframeAnimation, s *State) bool
}

// EffectFunc 让普通函数实现 Effect
type EffectFunc func(a *KeyframeAnimation, s *State) bool

func (f EffectFunc) Apply(a *KeyframeAnimation, s *State) bool { return f(a, s) }

// EffectKind 内置效果
type EffectKind int

const (
	NoOp EffectKind = iota
	SetBacklightColor
	AnimateBacklightColor
	DisplayLayerText
	DisplayLayerBitmap
	DisableLCDAndBacklight
	EnableLCDAndBacklight
	EnableVisualization
)

var effectNames = map[EffectKind]string{
	NoOp:                   "noop",
	SetBacklightColor:      "set_backlight_color",
	AnimateBacklightColor:  "animate_backlight_color",
	DisplayLayerText:       "display_layer_text",
	DisplayLayerBitmap:     "display_layer_bitmap",
	DisableLCDAndBacklight: "disable_lcd_and_backlight",
	EnableLCDAndBacklight:  "enable_lcd_and_backlight",
	EnableVisualization:    "enable_visualization",
}

func (k EffectKind) String() string {
	if name, ok := effectNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k EffectKind) Apply(a *KeyframeAnimation, s *State) bool {
	switch k {
	case SetBacklightColor:
		s.PrevColor = s.TargetColor
		s.CurrentColor = s.TargetColor
		s.Renderer.SetBacklight(s.CurrentColor)
	case AnimateBacklightColor:
		s.CurrentColor = InterpolateColor(s.PrevColor, s.TargetColor, a.FrameDuration()-a.TimeLeft(), a.FrameDuration())
		s.Renderer.SetBacklight(s.CurrentColor)
		return true
	case DisplayLayerText:
		s.Renderer.Clear()
		s.Renderer.DrawString(0, 10, s.LayerText, s.FontBold)
		s.Renderer.Flush()
	case DisplayLayerBitmap:
		s.Renderer.Clear()
		s.Renderer.DrawString(0, 0, LayerLegend, s.FontFixed)
		s.Renderer.DrawString(0, 10, FormatLayerBitmap(uint16(s.Status.DefaultLayer), uint16(s.Status.Layer)), s.FontFixed)
		s.Renderer.DrawString(0, 20, FormatLayerBitmap(uint16(s.Status.DefaultLayer>>16), uint16(s.Status.Layer>>16)), s.FontFixed)
		s.Renderer.Flush()
	case DisableLCDAndBacklight:
		s.Renderer.SetPower(false)
		s.Renderer.SetBacklightRaw(0, 0, 0)
	case EnableLCDAndBacklight:
		s.Renderer.SetPower(true)
	case EnableVisualization:
		s.Enable()
	}
	return false
}

// InterpolateColor 计算从 from 到 to 在 pos/length 处的颜色。
// 色相沿 8 位色环较短的方向变化。
func InterpolateColor(from, to define.Color, pos, length time.Duration) define.Color {
	if length <= 0 || pos >= length {
		return to
	}
	if pos < 0 {
		pos = 0
	}

	dh := int64(uint8(to.Hue - from.Hue))
	if dh > 128 {
		dh -= 256
	}
	ds := int64(to.Saturation) - int64(from.Saturation)
	di := int64(to.Intensity) - int64(from.Intensity)

	p, l := int64(pos), int64(length)
	return define.Color{
		Hue:        uint8(int64(from.Hue) + dh*p/l),
		Saturation: uint8(int64(from.Saturation) + ds*p/l),
		Intensity:  uint8(int64(from.Intensity) + di*p/l),
	}
}
