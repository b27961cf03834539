package visualizer

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"keyvis/define"
	"keyvis/metrics"
)

// Snapshot 调度循环每一轮结束后发布的只读快照，供其他 goroutine 查询
type Snapshot struct {
	Status       define.KeyboardStatus `json:"status"`
	Observed     define.KeyboardStatus `json:"observed"`
	Enabled      bool                  `json:"enabled"`
	Active       []string              `json:"active"`
	CurrentColor define.Color          `json:"currentColor"`
	TargetColor  define.Color          `json:"targetColor"`
	LayerText    string                `json:"layerText"`
	SleepMs      int64                 `json:"sleepMs"` // -1 表示等待唤醒
	Passes       uint64                `json:"passes"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// Command 在调度循环中执行的操作
type Command func(s *State)

// SchedulerConfig 调度器的依赖
type SchedulerConfig struct {
	Policy   Policy
	Renderer Renderer
	Cell     *StatusCell
	Wake     *Signal
	Clock    Clock
	Debug    bool // 打印每一轮的调度细节
}

// Scheduler 可视化的后台调度循环。
// 动画引擎和 State 只在运行 Run 的 goroutine 中被修改。
type Scheduler struct {
	state  State
	policy Policy
	cell   *StatusCell
	wake   *Signal
	clock  Clock
	debug  bool

	initialized bool
	currentTime time.Time
	passes      uint64

	commandMutex sync.Mutex
	commands     []Command

	snapshot atomic.Pointer[Snapshot]
}

// NewScheduler 创建调度器，未提供的依赖使用默认值
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Policy == nil {
		cfg.Policy = NopPolicy{}
	}
	if cfg.Renderer == nil {
		cfg.Renderer = nopRenderer{}
	}
	if cfg.Cell == nil {
		cfg.Cell = NewStatusCell()
	}
	if cfg.Wake == nil {
		cfg.Wake = NewSignal()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}

	s := &Scheduler{
		state: State{
			Status:     define.UnknownStatus,
			Renderer:   cfg.Renderer,
			Animations: NewAnimationEngine(),
		},
		policy: cfg.Policy,
		cell:   cfg.Cell,
		wake:   cfg.Wake,
		clock:  cfg.Clock,
		debug:  cfg.Debug,
	}
	s.snapshot.Store(&Snapshot{Status: define.UnknownStatus, Observed: s.cell.Read(), SleepMs: -1})
	return s
}

// Engine 返回调度器的动画引擎，注册表可以并发访问，槽位只能在调度循环中修改
func (s *Scheduler) Engine() *AnimationEngine { return s.state.Animations }

// Snapshot 返回最近一轮的快照
func (s *Scheduler) Snapshot() Snapshot { return *s.snapshot.Load() }

// Do 把操作排入队列，在下一轮推进动画之前执行，并唤醒调度循环
func (s *Scheduler) Do(cmd Command) {
	s.commandMutex.Lock()
	s.commands = append(s.commands, cmd)
	s.commandMutex.Unlock()
	s.wake.Raise()
}

// Init 打开字体、调用策略的初始化并点亮背光。Run 会在需要时自动调用。
func (s *Scheduler) Init() {
	if s.initialized {
		return
	}
	s.initialized = true

	st := &s.state
	st.FontFixed = st.Renderer.OpenFont(FontFixed5x8)
	st.FontBold = st.Renderer.OpenFont(FontDejaVuSansBold12)

	s.policy.Init(st)
	st.PrevColor = st.CurrentColor
	st.Renderer.SetBacklight(st.CurrentColor)

	s.currentTime = s.clock.Now()
	s.publish(Infinite)
	log.Printf("✅ 可视化调度器已初始化")
}

// Run 运行调度循环，直到 ctx 结束
func (s *Scheduler) Run(ctx context.Context) error {
	s.Init()
	log.Printf("▶️ 可视化调度循环已启动")
	for {
		sleep := s.Step()
		if !s.wait(ctx, sleep) {
			log.Printf("🛑 可视化调度循环已退出")
			return ctx.Err()
		}
	}
}

// Step 执行一轮调度，返回下一次等待的时长
func (s *Scheduler) Step() time.Duration {
	if !s.initialized {
		s.Init()
	}
	st := &s.state

	newTime := s.clock.Now()
	delta := newTime.Sub(s.currentTime)
	if delta < 0 {
		delta = 0
	}
	s.currentTime = newTime
	enabled := st.Enabled()

	observed := s.cell.Read()
	if !st.Status.Equal(observed) && st.Enabled() {
		if observed.Suspended {
			st.Animations.StopAll()
			st.Disable()
			st.Status = observed
			log.Printf("💤 键盘已挂起，停止所有动画")
			s.policy.Suspend(st)
		} else {
			st.Status = observed
			s.policy.StatusUpdate(st)
		}
		st.PrevColor = st.CurrentColor
	}

	if !enabled && st.Status.Suspended && !observed.Suspended {
		// 回到哨兵状态，重新启用后下一轮一定会触发一次更新
		st.Status = define.UnknownStatus
		st.Status.Suspended = false
		st.Animations.StopAll()
		log.Printf("⏰ 键盘已唤醒，重新同步状态")
		s.policy.Resume(st)
		st.PrevColor = st.CurrentColor
	}

	s.runCommands()

	sleep := st.Animations.tickAll(delta, st)

	// 动画可能启用了可视化，需要马上再跑一轮处理状态
	if enabled != st.Enabled() {
		sleep = 0
	}

	cost := s.clock.Now().Sub(s.currentTime)
	if sleep != Infinite {
		if sleep > cost {
			sleep -= cost
		} else {
			sleep = 0
		}
	}

	s.passes++
	metrics.SchedulerPasses.Inc()
	if s.debug {
		log.Printf("🔍 第 %d 轮: 耗时 %v, 间隔 %v, 休眠 %v, 动画 %v", s.passes, cost, delta, formatSleep(sleep), st.Animations.ActiveNames())
	}
	s.publish(sleep)
	return sleep
}

func (s *Scheduler) runCommands() {
	s.commandMutex.Lock()
	cmds := s.commands
	s.commands = nil
	s.commandMutex.Unlock()

	for _, cmd := range cmds {
		cmd(&s.state)
	}
}

// wait 等待到超时或被唤醒，ctx 结束时返回 false
func (s *Scheduler) wait(ctx context.Context, sleep time.Duration) bool {
	if sleep == Infinite {
		select {
		case <-ctx.Done():
			return false
		case <-s.wake.C():
			return true
		}
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-s.wake.C():
		return true
	case <-timer.C:
		return true
	}
}

func (s *Scheduler) publish(sleep time.Duration) {
	st := &s.state
	snap := &Snapshot{
		Status:       st.Status,
		Observed:     s.cell.Read(),
		Enabled:      st.Enabled(),
		Active:       st.Animations.ActiveNames(),
		CurrentColor: st.CurrentColor,
		TargetColor:  st.TargetColor,
		LayerText:    st.LayerText,
		SleepMs:      -1,
		Passes:       s.passes,
		UpdatedAt:    s.clock.Now(),
	}
	if sleep != Infinite {
		snap.SleepMs = sleep.Milliseconds()
	}
	s.snapshot.Store(snap)

	if sleep == Infinite {
		metrics.SchedulerSleep.Set(-1)
	} else {
		metrics.SchedulerSleep.Set(sleep.Seconds())
	}
	if st.Enabled() {
		metrics.Enabled.Set(1)
	} else {
		metrics.Enabled.Set(0)
	}
}

func formatSleep(d time.Duration) string {
	if d == Infinite {
		return "∞"
	}
	return d.String()
}
