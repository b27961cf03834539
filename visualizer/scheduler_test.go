package visualizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"keyvis/define"
)

// testPolicy 启动时播放一个启用可视化的动画，并记录所有回调
type testPolicy struct {
	events   []string
	statuses []define.KeyboardStatus
	enable   *KeyframeAnimation
	fade     *KeyframeAnimation
}

func newTestPolicy() *testPolicy {
	return &testPolicy{
		enable: NewKeyframeAnimation("enable", false,
			Frame{0, EnableLCDAndBacklight},
			Frame{0, EnableVisualization},
		),
		fade: NewKeyframeAnimation("fade", false, Frame{100 * ms, NoOp}),
	}
}

func (p *testPolicy) Init(s *State) {
	p.events = append(p.events, "init")
	s.CurrentColor = define.Color{Intensity: 10}
	s.Animations.Register(p.enable)
	s.Start(p.enable)
}

func (p *testPolicy) StatusUpdate(s *State) {
	p.events = append(p.events, "update")
	p.statuses = append(p.statuses, s.Status)
	s.Start(p.fade)
}

func (p *testPolicy) Suspend(s *State) { p.events = append(p.events, "suspend") }

func (p *testPolicy) Resume(s *State) {
	p.events = append(p.events, "resume")
	s.Start(p.enable)
}

func (p *testPolicy) last() string {
	if len(p.events) == 0 {
		return ""
	}
	return p.events[len(p.events)-1]
}

func newTestScheduler() (*Scheduler, *testPolicy, *Synchronizer, *fakeClock) {
	clock := newFakeClock()
	policy := newTestPolicy()
	cell := NewStatusCell()
	wake := NewSignal()
	sched := NewScheduler(SchedulerConfig{
		Policy:   policy,
		Renderer: &recordingRenderer{},
		Cell:     cell,
		Wake:     wake,
		Clock:    clock,
	})
	return sched, policy, NewSynchronizer(cell, wake, nil, clock), clock
}

// enable 跑到启动动画启用可视化为止
func enable(t *testing.T, sched *Scheduler, clock *fakeClock) {
	t.Helper()
	for i := 0; i < 5 && !sched.Snapshot().Enabled; i++ {
		clock.Advance(ms)
		sched.Step()
	}
	if !sched.Snapshot().Enabled {
		t.Fatal("visualization never enabled")
	}
}

func TestSchedulerInit(t *testing.T) {
	sched, policy, _, _ := newTestScheduler()
	sched.Init()
	sched.Init()

	if len(policy.events) != 1 || policy.events[0] != "init" {
		t.Fatalf("events = %v, want [init]", policy.events)
	}
	if sched.state.PrevColor != sched.state.CurrentColor {
		t.Fatal("previous color must start at the initial color")
	}
	if sched.state.FontFixed == nil || sched.state.FontBold == nil {
		t.Fatal("fonts not opened")
	}
	r := sched.state.Renderer.(*recordingRenderer)
	if r.backlight != (define.Color{Intensity: 10}) {
		t.Fatalf("backlight = %+v, want initial color", r.backlight)
	}
}

func TestSchedulerIgnoresStatusUntilEnabled(t *testing.T) {
	sched, policy, syncer, clock := newTestScheduler()
	sched.Init()
	syncer.ReportStatus(0x1, 0x1, 0)

	// 第一轮进入启动动画的第 0 帧，可视化还未启用
	sleep := sched.Step()
	if policy.last() != "init" {
		t.Fatalf("status handled before enabling: %v", policy.events)
	}
	if sleep != 0 {
		t.Fatalf("sleep = %v, want 0 for a zero-length frame", sleep)
	}

	clock.Advance(ms)
	sleep = sched.Step()
	if !sched.Snapshot().Enabled {
		t.Fatal("enable frame did not run")
	}
	if sleep != 0 {
		t.Fatalf("sleep = %v, want 0 after the enable flag flipped", sleep)
	}

	clock.Advance(ms)
	sched.Step()
	if policy.last() != "update" {
		t.Fatalf("events = %v, want update after enabling", policy.events)
	}
	want := define.KeyboardStatus{DefaultLayer: 0x1, Layer: 0x1}
	if !policy.statuses[0].Equal(want) {
		t.Fatalf("status = %v, want %v", policy.statuses[0], want)
	}
}

func TestSchedulerSleepTracksDeadline(t *testing.T) {
	sched, _, syncer, clock := newTestScheduler()
	enable(t, sched, clock)

	syncer.ReportStatus(0, 0x2, 0)
	clock.Advance(ms)
	if sleep := sched.Step(); sleep != 100*ms {
		t.Fatalf("sleep = %v, want 100ms", sleep)
	}

	clock.Advance(30 * ms)
	if sleep := sched.Step(); sleep != 70*ms {
		t.Fatalf("sleep = %v, want 70ms", sleep)
	}

	clock.Advance(70 * ms)
	if sleep := sched.Step(); sleep != Infinite {
		t.Fatalf("sleep = %v, want Infinite once every animation finished", sleep)
	}
	if snap := sched.Snapshot(); snap.SleepMs != -1 || len(snap.Active) != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSchedulerSubtractsProcessingTime(t *testing.T) {
	sched, _, _, clock := newTestScheduler()
	enable(t, sched, clock)

	slow := NewKeyframeAnimation("slow", false, Frame{100 * ms, EffectFunc(func(*KeyframeAnimation, *State) bool {
		clock.Advance(4 * ms)
		return false
	})})
	sched.Do(func(s *State) { s.Start(slow) })

	clock.Advance(ms)
	if sleep := sched.Step(); sleep != 96*ms {
		t.Fatalf("sleep = %v, want 96ms", sleep)
	}
}

func TestSchedulerSuspendAndResume(t *testing.T) {
	sched, policy, syncer, clock := newTestScheduler()
	enable(t, sched, clock)
	syncer.ReportStatus(0x1, 0x2, 0)
	clock.Advance(ms)
	sched.Step()
	if !sched.state.Animations.IsActive(policy.fade) {
		t.Fatal("update did not start the fade")
	}

	syncer.Suspend()
	clock.Advance(ms)
	sched.Step()
	if policy.last() != "suspend" {
		t.Fatalf("events = %v, want suspend", policy.events)
	}
	if sched.Snapshot().Enabled {
		t.Fatal("suspend must disable visualization")
	}
	if sched.state.Animations.Len() != 0 || !policy.fade.Finished() {
		t.Fatal("suspend must stop every animation")
	}

	// 挂起期间的状态变化不会交给策略
	syncer.ReportStatus(0x1, 0x4, 0)
	clock.Advance(ms)
	sched.Step()
	if policy.last() != "suspend" {
		t.Fatalf("events = %v, status handled while suspended", policy.events)
	}

	syncer.Resume()
	clock.Advance(ms)
	sched.Step()
	if policy.last() != "resume" {
		t.Fatalf("events = %v, want resume", policy.events)
	}
	if !sched.state.Status.Equal(define.UnknownStatus) {
		t.Fatalf("remembered status = %v, want sentinel after resume", sched.state.Status)
	}

	enable(t, sched, clock)
	clock.Advance(ms)
	sched.Step()
	if policy.last() != "update" {
		t.Fatalf("events = %v, want forced update after resume", policy.events)
	}
	want := define.KeyboardStatus{DefaultLayer: 0x1, Layer: 0x4}
	if got := policy.statuses[len(policy.statuses)-1]; !got.Equal(want) {
		t.Fatalf("status after resume = %v, want %v", got, want)
	}
}

func TestSchedulerUpdateResetsPreviousColor(t *testing.T) {
	sched, _, syncer, clock := newTestScheduler()
	enable(t, sched, clock)
	sched.state.CurrentColor = define.Color{Hue: 42}

	syncer.ReportStatus(0, 0x8, 0)
	clock.Advance(ms)
	sched.Step()
	if sched.state.PrevColor != (define.Color{Hue: 42}) {
		t.Fatalf("previous color = %+v, want current color", sched.state.PrevColor)
	}
}

func TestSchedulerRunWakesAndStops(t *testing.T) {
	sched, _, syncer, _ := newTestScheduler()
	sched.clock = SystemClock{}
	syncer.clock = SystemClock{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !sched.Snapshot().Enabled {
		if time.Now().After(deadline) {
			t.Fatal("scheduler never enabled visualization")
		}
		time.Sleep(ms)
	}

	syncer.ReportStatus(0, 0x10, 0)
	for sched.Snapshot().Status.Layer != 0x10 {
		if time.Now().After(deadline) {
			t.Fatal("scheduler did not react to the wake signal")
		}
		time.Sleep(ms)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
