package visualizer

import (
	"sync/atomic"

	"keyvis/define"
)

// StatusCell 最近一次观察到的键盘状态，由上报路径写入、调度循环读取。
//
// 读写不加锁，只保证最终一致：比较和写入是两步操作，并发上报时中间值可能丢失，
// 调度循环下一轮总会重新比较完整的状态，所以不会留下永久的不一致。
type StatusCell struct {
	p atomic.Pointer[define.KeyboardStatus]
}

// NewStatusCell 创建一个初始值为 UnknownStatus 的状态单元
func NewStatusCell() *StatusCell {
	c := &StatusCell{}
	c.Store(define.UnknownStatus)
	return c
}

// Read 读取当前状态
func (c *StatusCell) Read() define.KeyboardStatus {
	if p := c.p.Load(); p != nil {
		return *p
	}
	return define.UnknownStatus
}

// Store 整体替换当前状态
func (c *StatusCell) Store(s define.KeyboardStatus) {
	c.p.Store(&s)
}

// CompareAndSet 当 next 与当前状态不同时写入，返回是否发生了变化
func (c *StatusCell) CompareAndSet(next define.KeyboardStatus) bool {
	if c.Read().Equal(next) {
		return false
	}
	c.Store(next)
	return true
}
