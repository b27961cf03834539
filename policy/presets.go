package policy

import (
	"keyvis/define"
	"keyvis/visualizer"
)

// LayerPreset 每一层显示的名称和背光颜色
type LayerPreset struct {
	Name        string       // 层名称，显示在屏幕上
	Description string       // 层描述
	Color       define.Color // 背光颜色
}

// 启动和挂起时使用的颜色
var (
	StartupColor = define.Color{Hue: 0x00, Saturation: 0x00, Intensity: 0xFF}
	BlackColor   = define.Color{}
)

// LayerPresets 按层号索引的预设，超出范围的层使用最后一项
var LayerPresets = []LayerPreset{
	{Name: "Default", Description: "基础层", Color: define.Color{Hue: 0x00, Saturation: 0x00, Intensity: 0xFF}},
	{Name: "Symbols", Description: "符号层", Color: define.Color{Hue: 0xA0, Saturation: 0xFF, Intensity: 0xFF}},
	{Name: "Navigation", Description: "导航层", Color: define.Color{Hue: 0x55, Saturation: 0xFF, Intensity: 0xFF}},
	{Name: "Media", Description: "媒体层", Color: define.Color{Hue: 0xC8, Saturation: 0xFF, Intensity: 0xFF}},
	{Name: "Function", Description: "功能键层", Color: define.Color{Hue: 0x1C, Saturation: 0xFF, Intensity: 0xFF}},
	{Name: "Numpad", Description: "数字小键盘层", Color: define.Color{Hue: 0x2A, Saturation: 0xFF, Intensity: 0xFF}},
	{Name: "Mouse", Description: "鼠标层", Color: define.Color{Hue: 0x80, Saturation: 0xFF, Intensity: 0xFF}},
	{Name: "System", Description: "系统层", Color: define.Color{Hue: 0xE8, Saturation: 0xFF, Intensity: 0xFF}},
}

// PresetFor 返回指定层的预设，负数使用基础层
func PresetFor(layer int) LayerPreset {
	if layer < 0 {
		layer = 0
	}
	if layer >= len(LayerPresets) {
		layer = len(LayerPresets) - 1
	}
	return LayerPresets[layer]
}

// ActiveLayer 返回最高的激活层，没有激活层时回退到默认层
func ActiveLayer(status define.KeyboardStatus) int {
	if layer := visualizer.HighestLayer(status.Layer); layer >= 0 {
		return layer
	}
	return visualizer.HighestLayer(status.DefaultLayer)
}

// layerText 屏幕上显示的层名称，大写锁定时追加标记
func layerText(status define.KeyboardStatus) string {
	text := PresetFor(ActiveLayer(status)).Name
	if status.LEDs&define.LED_CAPS_LOCK != 0 {
		text += " CAPS"
	}
	return text
}

// withBacklight 关闭背光时强制亮度为 0
func withBacklight(c define.Color, display define.DisplayConfig) define.Color {
	if !display.Backlight {
		c.Intensity = 0
	}
	return c
}
