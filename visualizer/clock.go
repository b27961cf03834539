package visualizer

import (
	"math"
	"time"
)

// Infinite 表示没有任何动画需要定时唤醒，只等待显式唤醒
const Infinite time.Duration = math.MaxInt64

// Clock 调度循环使用的时间源
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系统单调时钟
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Signal 广播式唤醒事件。
// 在调度循环观察到之前发生的多次唤醒会合并成一次，不记录唤醒原因。
type Signal struct {
	ch chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise 发出唤醒信号，从不阻塞
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C 返回等待唤醒的通道
func (s *Signal) C() <-chan struct{} { return s.ch }

// Pending 是否有尚未被消费的唤醒
func (s *Signal) Pending() bool { return len(s.ch) > 0 }
