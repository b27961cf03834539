package define

import "fmt"

// KeyboardStatus 键盘可观测状态的快照，整体替换，不做局部修改
type KeyboardStatus struct {
	Layer        uint32 `json:"layer"`
	DefaultLayer uint32 `json:"defaultLayer"`
	LEDs         uint32 `json:"leds"`
	Suspended    bool   `json:"suspended"`
}

// UnknownStatus 启动时的哨兵值，保证第一次真实上报一定被视为变化
var UnknownStatus = KeyboardStatus{
	Layer:        0xFFFFFFFF,
	DefaultLayer: 0xFFFFFFFF,
	LEDs:         0xFFFFFFFF,
	Suspended:    false,
}

// Equal 逐字段比较
func (s KeyboardStatus) Equal(o KeyboardStatus) bool {
	return s.Layer == o.Layer &&
		s.DefaultLayer == o.DefaultLayer &&
		s.LEDs == o.LEDs &&
		s.Suspended == o.Suspended
}

func (s KeyboardStatus) String() string {
	return fmt.Sprintf("layer=0x%08X default=0x%08X leds=0x%08X suspended=%t",
		s.Layer, s.DefaultLayer, s.LEDs, s.Suspended)
}

// 常见指示灯位
const (
	LED_NUM_LOCK    uint32 = 1 << 0
	LED_CAPS_LOCK   uint32 = 1 << 1
	LED_SCROLL_LOCK uint32 = 1 << 2
)

// Color 背光颜色，色相/饱和度/亮度各 8 位
type Color struct {
	Hue        uint8 `json:"hue"`
	Saturation uint8 `json:"saturation"`
	Intensity  uint8 `json:"intensity"`
}
