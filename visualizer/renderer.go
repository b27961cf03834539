package visualizer

import "keyvis/define"

// Font 渲染后端持有的字体句柄
type Font interface {
	Name() string
}

// Renderer 定义了显示屏和背光的基本绘制能力。
// 只会在帧效果里被调用，调用必须很快返回。
type Renderer interface {
	// OpenFont 打开一个字体，失败时返回 nil
	OpenFont(name string) Font

	// Clear 清空显示缓冲
	Clear()

	// DrawString 在 (x, y) 处绘制文本
	DrawString(x, y int, text string, font Font)

	// Flush 把显示缓冲刷新到屏幕
	Flush()

	// SetPower 打开或关闭显示屏
	SetPower(on bool)

	// SetBacklight 设置背光颜色
	SetBacklight(c define.Color)

	// SetBacklightRaw 绕过颜色校正直接写背光
	SetBacklightRaw(hue, saturation, intensity uint8)
}

// nopRenderer 未配置渲染后端时使用
type nopRenderer struct{}

func (nopRenderer) OpenFont(string) Font { return nil }
func (nopRenderer) Clear() {}
func (nopRenderer) DrawString(int, int, string, Font) {}
func (nopRenderer) Flush() {}
func (nopRenderer) SetPower(bool) {}
func (nopRenderer) SetBacklight(define.Color) {}
func (nopRenderer) SetBacklightRaw(uint8, uint8, uint8) {}
