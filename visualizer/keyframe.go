package visualizer

import (
	"time"

	"keyvis/metrics"
)

// PollInterval 连续效果需要反复调用时的轮询间隔
const PollInterval = 10 * time.Millisecond

const frameNotStarted = -1

// Frame 一个关键帧：名义时长和对应的效果
type Frame struct {
	Duration time.Duration
	Effect   Effect
}

// KeyframeAnimation 关键帧动画。
// 动画本身由策略声明并长期持有，引擎只修改播放游标和槽位归属。
type KeyframeAnimation struct {
	Name   string
	Frames []Frame
	Loop   bool

	currentFrame int           // -1 未开始，len(Frames) 已结束
	timeLeft     time.Duration // 可以为负，用于把超出的时间带入下一帧
	needUpdate   bool          // 当前帧的效果本轮是否还需要执行
}

// NewKeyframeAnimation 创建一个处于结束状态的动画
func NewKeyframeAnimation(name string, loop bool, frames ...Frame) *KeyframeAnimation {
	return &KeyframeAnimation{
		Name:         name,
		Frames:       frames,
		Loop:         loop,
		currentFrame: len(frames),
	}
}

// CurrentFrame 返回当前帧下标，-1 表示尚未开始
func (a *KeyframeAnimation) CurrentFrame() int { return a.currentFrame }

// TimeLeft 返回当前帧剩余时间
func (a *KeyframeAnimation) TimeLeft() time.Duration { return a.timeLeft }

// NeedsUpdate 返回当前帧的效果是否还待执行
func (a *KeyframeAnimation) NeedsUpdate() bool { return a.needUpdate }

// Finished 动画是否处于结束状态
func (a *KeyframeAnimation) Finished() bool { return a.currentFrame >= len(a.Frames) }

// FrameDuration 返回当前帧的名义时长
func (a *KeyframeAnimation) FrameDuration() time.Duration {
	if a.currentFrame < 0 || a.currentFrame >= len(a.Frames) {
		return 0
	}
	return a.Frames[a.currentFrame].Duration
}

// TotalDuration 所有帧的名义时长之和
func (a *KeyframeAnimation) TotalDuration() time.Duration {
	var total time.Duration
	for _, f := range a.Frames {
		total += f.Duration
	}
	return total
}

func (a *KeyframeAnimation) valid() bool {
	if len(a.Frames) == 0 {
		return false
	}
	// 零时长的循环动画会让推进循环永远转下去
	return !a.Loop || a.TotalDuration() > 0
}

func (a *KeyframeAnimation) reset() {
	a.currentFrame = frameNotStarted
	a.timeLeft = 0
	a.needUpdate = true
}

func (a *KeyframeAnimation) terminate() {
	a.currentFrame = len(a.Frames)
	a.timeLeft = 0
	a.needUpdate = true
}

// apply 执行当前帧的效果，返回是否需要在帧结束前再次调用
func (a *KeyframeAnimation) apply(s *State) bool {
	metrics.FramesApplied.WithLabelValues(a.Name).Inc()
	effect := a.Frames[a.currentFrame].Effect
	if effect == nil {
		return false
	}
	return effect.Apply(a, s)
}

// Tick 按经过的时间推进动画。
// 返回动画是否仍在播放，以及它希望的下一次唤醒间隔。
func (e *AnimationEngine) Tick(a *KeyframeAnimation, delta time.Duration, s *State) (bool, time.Duration) {
	if a.Finished() {
		a.needUpdate = false
		return false, 0
	}

	if a.currentFrame == frameNotStarted {
		a.currentFrame = 0
		a.timeLeft = a.Frames[0].Duration
		a.needUpdate = true
	} else {
		a.timeLeft -= delta
		for a.timeLeft <= 0 {
			left := a.timeLeft
			if a.needUpdate {
				// 帧已经走完，效果按帧末位置执行一次，保证每帧至少执行一次
				a.timeLeft = 0
				a.apply(s)
				if a.Finished() {
					return false, 0
				}
			}
			a.currentFrame++
			a.needUpdate = true
			if a.currentFrame == len(a.Frames) {
				if !a.Loop {
					e.Stop(a)
					return false, 0
				}
				a.currentFrame = 0
			}
			a.timeLeft = a.Frames[a.currentFrame].Duration + left
		}
	}

	if a.needUpdate {
		a.needUpdate = a.apply(s)
		if a.Finished() {
			return false, 0
		}
	}

	if a.needUpdate {
		return true, PollInterval
	}
	return true, a.timeLeft
}
