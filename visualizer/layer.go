package visualizer

import (
	"math/bits"
	"strings"
)

// LayerLegend 层位图的图例
const LayerLegend = "1=On D=Default B=Both"

// FormatLayerBitmap 把 16 个层格式化成 "0000 0000 0000 0000" 形式，
// 1 表示激活，D 表示默认层，B 表示两者皆是。
func FormatLayerBitmap(defaultLayer, layer uint16) string {
	var b strings.Builder
	b.Grow(16 + 3)
	for i := 0; i < 16; i++ {
		mask := uint16(1) << i
		switch {
		case defaultLayer&mask != 0 && layer&mask != 0:
			b.WriteByte('B')
		case defaultLayer&mask != 0:
			b.WriteByte('D')
		case layer&mask != 0:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
		if i == 3 || i == 7 || i == 11 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// HighestLayer 返回最高的激活层，没有激活层时返回 -1
func HighestLayer(mask uint32) int {
	return bits.Len32(mask) - 1
}
