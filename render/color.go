package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"keyvis/define"
)

// ToColorful 把 8 位的色相/饱和度/亮度转换成 RGB 颜色
func ToColorful(c define.Color) colorful.Color {
	hue := float64(c.Hue) * 360 / 256
	return colorful.Hsv(hue, float64(c.Saturation)/255, float64(c.Intensity)/255).Clamped()
}

// Hex 返回颜色的 #rrggbb 形式
func Hex(c define.Color) string {
	return ToColorful(c).Hex()
}
