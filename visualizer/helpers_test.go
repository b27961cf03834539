package visualizer

import (
	"fmt"
	"sync"
	"time"

	"keyvis/define"
)

const ms = time.Millisecond

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testFont string

func (f testFont) Name() string { return string(f) }

// recordingRenderer 记录所有绘制调用
type recordingRenderer struct {
	calls     []string
	backlight define.Color
	power     bool
}

func (r *recordingRenderer) OpenFont(name string) Font { return testFont(name) }
func (r *recordingRenderer) Clear() { r.calls = append(r.calls, "clear") }
func (r *recordingRenderer) Flush() { r.calls = append(r.calls, "flush") }

func (r *recordingRenderer) DrawString(x, y int, text string, font Font) {
	name := ""
	if font != nil {
		name = font.Name()
	}
	r.calls = append(r.calls, fmt.Sprintf("draw %d,%d %q %s", x, y, text, name))
}

func (r *recordingRenderer) SetPower(on bool) {
	r.power = on
	r.calls = append(r.calls, fmt.Sprintf("power %t", on))
}

func (r *recordingRenderer) SetBacklight(c define.Color) {
	r.backlight = c
	r.calls = append(r.calls, fmt.Sprintf("backlight %d,%d,%d", c.Hue, c.Saturation, c.Intensity))
}

func (r *recordingRenderer) SetBacklightRaw(h, s, i uint8) {
	r.backlight = define.Color{Hue: h, Saturation: s, Intensity: i}
	r.calls = append(r.calls, fmt.Sprintf("raw %d,%d,%d", h, s, i))
}

// countingEffect 记录被调用的次数和调用时所在的帧
type countingEffect struct {
	calls  int
	frames []int
	ret    bool
}

func (c *countingEffect) Apply(a *KeyframeAnimation, s *State) bool {
	c.calls++
	c.frames = append(c.frames, a.CurrentFrame())
	return c.ret
}

func newTestState(e *AnimationEngine) *State {
	return &State{
		Status:     define.UnknownStatus,
		Renderer:   &recordingRenderer{},
		Animations: e,
	}
}
