package visualizer

import (
	"log"
	"sync"
	"time"

	"keyvis/define"
	"keyvis/metrics"
)

// DebounceWindow 两次非变化触发的远端推送之间的最小间隔
const DebounceWindow = 10 * time.Millisecond

// Link 与分体键盘另一半之间的状态链路
type Link interface {
	// Push 把状态推送给对端，不能阻塞
	Push(status define.KeyboardStatus) error
	// TryPull 取出对端发来的最新状态
	TryPull() (define.KeyboardStatus, bool)
	// Connected 对端是否正在提供权威状态
	Connected() bool
}

// Synchronizer 处理键盘状态上报：检测变化、唤醒调度循环、按防抖节奏推送给对端
type Synchronizer struct {
	cell  *StatusCell
	wake  *Signal
	link  Link // 可以为 nil，表示单机运行
	clock Clock

	pushMutex sync.Mutex // 保护 lastPush
	lastPush  time.Time
}

// NewSynchronizer 创建状态同步器，link 为 nil 时只做本地上报
func NewSynchronizer(cell *StatusCell, wake *Signal, link Link, clock Clock) *Synchronizer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Synchronizer{
		cell:  cell,
		wake:  wake,
		link:  link,
		clock: clock,
	}
}

// Cell 返回共享的状态单元
func (s *Synchronizer) Cell() *StatusCell { return s.cell }

// ReportStatus 由按键处理代码在可观测状态变化时调用。
// 对端链路连接时以对端状态为准，否则以本地上报为准。
func (s *Synchronizer) ReportStatus(defaultLayer, layer, leds uint32) {
	changed := false
	kind := "local"
	if s.link != nil && s.link.Connected() {
		kind = "remote"
		if remote, ok := s.link.TryPull(); ok {
			changed = s.cell.CompareAndSet(remote)
		}
	} else {
		next := define.KeyboardStatus{
			Layer:        layer,
			DefaultLayer: defaultLayer,
			LEDs:         leds,
			Suspended:    s.cell.Read().Suspended,
		}
		changed = s.cell.CompareAndSet(next)
	}
	metrics.StatusReports.WithLabelValues(kind, metrics.BoolLabel(changed)).Inc()
	s.update(changed)
}

// Suspend 键盘进入挂起状态，总是唤醒调度循环
func (s *Synchronizer) Suspend() {
	status := s.cell.Read()
	status.Suspended = true
	s.cell.Store(status)
	metrics.StatusReports.WithLabelValues("suspend", "true").Inc()
	s.update(true)
}

// Resume 键盘离开挂起状态，总是唤醒调度循环
func (s *Synchronizer) Resume() {
	status := s.cell.Read()
	status.Suspended = false
	s.cell.Store(status)
	metrics.StatusReports.WithLabelValues("resume", "true").Inc()
	s.update(true)
}

// ReceiveRemote 处理对端发来的状态记录。
// 与本地变化一样在不同时写入并唤醒，但不会再推送回对端。
func (s *Synchronizer) ReceiveRemote(status define.KeyboardStatus) bool {
	changed := s.cell.CompareAndSet(status)
	metrics.StatusReports.WithLabelValues("remote", metrics.BoolLabel(changed)).Inc()
	if changed {
		s.raise()
	}
	return changed
}

func (s *Synchronizer) raise() {
	s.wake.Raise()
	metrics.WakeSignals.Inc()
}

func (s *Synchronizer) update(changed bool) {
	if changed {
		s.raise()
	}
	if s.link == nil {
		return
	}

	// 值变化时立即推送，否则至多每个防抖窗口推送一次，
	// 既限制了对端看到的状态的陈旧程度，也限制了链路流量
	now := s.clock.Now()
	s.pushMutex.Lock()
	due := changed || now.Sub(s.lastPush) > DebounceWindow
	if due {
		s.lastPush = now
	}
	s.pushMutex.Unlock()
	if !due {
		return
	}

	if err := s.link.Push(s.cell.Read()); err != nil {
		log.Printf("⚠️ 推送状态到对端失败: %v", err)
	}
}
