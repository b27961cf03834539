package render

import (
	"fmt"
	"log"
	"sync"

	"keyvis/define"
	"keyvis/visualizer"
)

type font string

func (f font) Name() string { return string(f) }

// Recorder 把所有绘制调用记录在内存中，用于测试和 dry-run 模式
type Recorder struct {
	Verbose bool // 每次调用都打印日志

	mu        sync.Mutex
	calls     []string
	backlight define.Color
	power     bool
}

// NewRecorder 创建记录器
func NewRecorder(verbose bool) *Recorder {
	return &Recorder{Verbose: verbose}
}

func (r *Recorder) record(format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	if r.Verbose {
		log.Printf("🖥️ %s", call)
	}
}

func (r *Recorder) OpenFont(name string) visualizer.Font {
	r.record("font %s", name)
	return font(name)
}

func (r *Recorder) Clear() { r.record("clear") }

func (r *Recorder) DrawString(x, y int, text string, f visualizer.Font) {
	name := ""
	if f != nil {
		name = f.Name()
	}
	r.record("draw %d,%d %q %s", x, y, text, name)
}

func (r *Recorder) Flush() { r.record("flush") }

func (r *Recorder) SetPower(on bool) {
	r.mu.Lock()
	r.power = on
	r.mu.Unlock()
	r.record("power %t", on)
}

func (r *Recorder) SetBacklight(c define.Color) {
	r.mu.Lock()
	r.backlight = c
	r.mu.Unlock()
	r.record("backlight %d,%d,%d", c.Hue, c.Saturation, c.Intensity)
}

func (r *Recorder) SetBacklightRaw(h, s, i uint8) {
	r.mu.Lock()
	r.backlight = define.Color{Hue: h, Saturation: s, Intensity: i}
	r.mu.Unlock()
	r.record("raw %d,%d,%d", h, s, i)
}

// Calls 返回已记录调用的副本
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// Backlight 最近一次设置的背光颜色
func (r *Recorder) Backlight() define.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backlight
}

// Power 屏幕和背光是否打开
func (r *Recorder) Power() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.power
}
