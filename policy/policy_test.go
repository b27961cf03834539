package policy

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"keyvis/define"
	"keyvis/render"
	"keyvis/visualizer"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type harness struct {
	t        *testing.T
	clock    *fakeClock
	recorder *render.Recorder
	sched    *visualizer.Scheduler
	syncer   *visualizer.Synchronizer
}

func newHarness(t *testing.T, name string, cfg *define.Config) *harness {
	t.Helper()
	RegisterPolicies()
	p, err := CreatePolicy(name, cfg)
	if err != nil {
		t.Fatalf("CreatePolicy(%q) error: %v", name, err)
	}

	h := &harness{
		t:        t,
		clock:    &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		recorder: render.NewRecorder(false),
	}
	cell := visualizer.NewStatusCell()
	wake := visualizer.NewSignal()
	h.sched = visualizer.NewScheduler(visualizer.SchedulerConfig{
		Policy:   p,
		Renderer: h.recorder,
		Cell:     cell,
		Wake:     wake,
		Clock:    h.clock,
	})
	h.syncer = visualizer.NewSynchronizer(cell, wake, nil, h.clock)
	h.sched.Init()
	return h
}

// runFor 以 10ms 为步长推进时间
func (h *harness) runFor(d time.Duration) {
	for elapsed := time.Duration(0); elapsed <= d; elapsed += 10 * time.Millisecond {
		h.sched.Step()
		h.clock.now = h.clock.now.Add(10 * time.Millisecond)
	}
}

func (h *harness) drew(text string) bool {
	for _, call := range h.recorder.Calls() {
		if strings.HasPrefix(call, "draw") && strings.Contains(call, text) {
			return true
		}
	}
	return false
}

func defaultConfig() *define.Config {
	return &define.Config{Side: "left", Display: define.DisplayConfig{Backlight: true, ShowLayers: true}}
}

func TestCreatePolicy(t *testing.T) {
	RegisterPolicies()

	if _, err := CreatePolicy("rainbow", nil); err == nil {
		t.Fatal("expected error for unknown policy")
	}
	for _, name := range []string{POLICY_DEFAULT, POLICY_MINIMAL} {
		if p, err := CreatePolicy(name, nil); err != nil || p == nil {
			t.Fatalf("CreatePolicy(%q) = %v, %v", name, p, err)
		}
	}

	got := GetSupportedPolicies()
	if len(got) != 2 || got[0] != POLICY_DEFAULT || got[1] != POLICY_MINIMAL {
		t.Fatalf("GetSupportedPolicies() = %v", got)
	}
}

func TestActiveLayer(t *testing.T) {
	tests := []struct {
		name   string
		status define.KeyboardStatus
		want   int
		text   string
	}{
		{"highest active layer", define.KeyboardStatus{DefaultLayer: 0x1, Layer: 0x6}, 2, "Navigation"},
		{"falls back to default layer", define.KeyboardStatus{DefaultLayer: 0x2}, 1, "Symbols"},
		{"nothing active", define.KeyboardStatus{}, -1, "Default"},
		{"caps lock", define.KeyboardStatus{Layer: 0x1, LEDs: define.LED_CAPS_LOCK}, 0, "Default CAPS"},
		{"beyond presets", define.KeyboardStatus{Layer: 1 << 20}, 20, "System"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveLayer(tt.status); got != tt.want {
				t.Errorf("ActiveLayer() = %d, want %d", got, tt.want)
			}
			if got := layerText(tt.status); got != tt.text {
				t.Errorf("layerText() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestDefaultPolicyStartup(t *testing.T) {
	h := newHarness(t, POLICY_DEFAULT, defaultConfig())

	registered := h.sched.Engine().Registered()
	if strings.Join(registered, ",") != "layer,startup,suspend" {
		t.Fatalf("registered = %v", registered)
	}

	h.runFor(500 * time.Millisecond)
	if h.sched.Snapshot().Enabled {
		t.Fatal("visualization enabled before the startup fade finished")
	}
	if !h.recorder.Power() || !h.drew("Startup") {
		t.Fatalf("startup did not power on and show text: %v", h.recorder.Calls())
	}

	h.runFor(600 * time.Millisecond)
	if !h.sched.Snapshot().Enabled {
		t.Fatal("visualization not enabled after startup")
	}
	if got := h.recorder.Backlight(); got != StartupColor {
		t.Fatalf("backlight = %+v, want %+v", got, StartupColor)
	}
}

func TestDefaultPolicyLayerChange(t *testing.T) {
	h := newHarness(t, POLICY_DEFAULT, defaultConfig())
	h.runFor(1200 * time.Millisecond)

	h.syncer.ReportStatus(0x1, 0x4, define.LED_CAPS_LOCK)
	h.runFor(300 * time.Millisecond)

	snap := h.sched.Snapshot()
	if snap.LayerText != "Navigation CAPS" {
		t.Fatalf("layer text = %q", snap.LayerText)
	}
	if got, want := h.recorder.Backlight(), PresetFor(2).Color; got != want {
		t.Fatalf("backlight = %+v, want %+v", got, want)
	}
	if !h.drew(visualizer.LayerLegend) {
		t.Fatal("layer bitmap not drawn")
	}
}

func TestDefaultPolicySuspendResume(t *testing.T) {
	h := newHarness(t, POLICY_DEFAULT, defaultConfig())
	h.runFor(1200 * time.Millisecond)

	h.syncer.Suspend()
	h.runFor(600 * time.Millisecond)
	if h.recorder.Power() {
		t.Fatal("suspend did not power off")
	}
	if got := h.recorder.Backlight(); got != BlackColor {
		t.Fatalf("backlight = %+v, want black", got)
	}
	if h.sched.Snapshot().Enabled {
		t.Fatal("visualization still enabled while suspended")
	}

	h.recorder.Reset()
	h.syncer.Resume()
	h.runFor(1200 * time.Millisecond)
	if !h.recorder.Power() || !h.drew("Startup") {
		t.Fatalf("resume did not replay startup: %v", h.recorder.Calls())
	}
	if !h.sched.Snapshot().Enabled {
		t.Fatal("visualization not enabled after resume")
	}
}

func TestDefaultPolicyWithoutBacklight(t *testing.T) {
	cfg := defaultConfig()
	cfg.Display.Backlight = false
	cfg.Display.ShowLayers = false
	h := newHarness(t, POLICY_DEFAULT, cfg)
	h.runFor(1200 * time.Millisecond)

	h.syncer.ReportStatus(0x1, 0x2, 0)
	h.runFor(300 * time.Millisecond)
	if got := h.recorder.Backlight(); got.Intensity != 0 {
		t.Fatalf("backlight = %+v, want zero intensity", got)
	}
	if h.drew(visualizer.LayerLegend) || !h.drew("Symbols") {
		t.Fatal("layer text expected instead of the bitmap")
	}
}

func TestMinimalPolicy(t *testing.T) {
	h := newHarness(t, POLICY_MINIMAL, defaultConfig())
	h.runFor(20 * time.Millisecond)
	if !h.sched.Snapshot().Enabled {
		t.Fatal("minimal policy should enable immediately")
	}

	h.syncer.ReportStatus(0x1, 0x2, 0)
	h.runFor(20 * time.Millisecond)
	if got, want := h.recorder.Backlight(), PresetFor(1).Color; got != want {
		t.Fatalf("backlight = %+v, want %+v", got, want)
	}
	if !h.drew("Symbols") {
		t.Fatal("layer name not drawn")
	}

	h.syncer.Suspend()
	h.runFor(20 * time.Millisecond)
	if h.recorder.Power() {
		t.Fatal("suspend did not power off")
	}
}

func TestDefaultPolicyTerminalShowsLayerColor(t *testing.T) {
	RegisterPolicies()
	cfg := defaultConfig()
	p, err := CreatePolicy(POLICY_DEFAULT, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cell := visualizer.NewStatusCell()
	wake := visualizer.NewSignal()
	h := &harness{
		t:     t,
		clock: clock,
		sched: visualizer.NewScheduler(visualizer.SchedulerConfig{
			Policy:   p,
			Renderer: render.NewTerminalRenderer(&out, "kbd", cfg.Display),
			Cell:     cell,
			Wake:     wake,
			Clock:    clock,
		}),
		syncer: visualizer.NewSynchronizer(cell, wake, nil, clock),
	}
	h.sched.Init()
	h.runFor(1500 * time.Millisecond)

	out.Reset()
	h.syncer.ReportStatus(0x1, 1<<1, 0)
	h.runFor(500 * time.Millisecond)

	want := render.Hex(PresetFor(1).Color)
	output := out.String()
	last := output[strings.LastIndex(output, "kbd"):]
	if !strings.Contains(last, want) {
		t.Fatalf("last frame does not show layer colour %s:\n%s", want, last)
	}
}
