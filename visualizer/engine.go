package visualizer

import (
	"log"
	"sort"
	"sync"
	"time"

	"keyvis/metrics"
)

// MaxSimultaneousAnimations 同时播放的动画数量上限
const MaxSimultaneousAnimations = 4

// AnimationEngine 管理同时播放的关键帧动画。
// 槽位表只由调度循环所在的 goroutine 访问；注册表可以被并发读取。
type AnimationEngine struct {
	slots    [MaxSimultaneousAnimations]*KeyframeAnimation
	occupied uint8 // 槽位占用位图，第 i 位表示 slots[i] 有效

	animations    map[string]*KeyframeAnimation // 注册的动画
	registerMutex sync.RWMutex                  // 保护动画注册表 (animations)
}

// NewAnimationEngine 创建一个新的动画引擎
func NewAnimationEngine() *AnimationEngine {
	return &AnimationEngine{
		animations: make(map[string]*KeyframeAnimation),
	}
}

// Register 注册一个动画，供外部按名称启动
func (e *AnimationEngine) Register(anim *KeyframeAnimation) {
	e.registerMutex.Lock()
	defer e.registerMutex.Unlock()

	if anim == nil {
		log.Printf("⚠️ 尝试注册一个空动画")
		return
	}

	if old, exists := e.animations[anim.Name]; exists && old != anim {
		log.Printf("⚠️ 动画 %s 已注册，将被覆盖", anim.Name)
	}
	e.animations[anim.Name] = anim
}

// Lookup 按名称查找已注册的动画
func (e *AnimationEngine) Lookup(name string) (*KeyframeAnimation, bool) {
	e.registerMutex.RLock()
	defer e.registerMutex.RUnlock()
	anim, exists := e.animations[name]
	return anim, exists
}

// Registered 获取已注册的动画名称列表
func (e *AnimationEngine) Registered() []string {
	e.registerMutex.RLock()
	defer e.registerMutex.RUnlock()

	names := make([]string, 0, len(e.animations))
	for name := range e.animations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *AnimationEngine) slotOf(anim *KeyframeAnimation) int {
	for i := range e.slots {
		if e.occupied&(1<<i) != 0 && e.slots[i] == anim {
			return i
		}
	}
	return -1
}

func (e *AnimationEngine) release(i int) {
	e.slots[i] = nil
	e.occupied &^= 1 << i
	metrics.ActiveAnimations.Set(float64(e.Len()))
}

// Start 从头开始播放动画。
// 动画已在播放时什么都不做（需要重播请先 Stop）；槽位已满时请求被静默丢弃。
func (e *AnimationEngine) Start(anim *KeyframeAnimation) {
	if anim == nil {
		return
	}
	if !anim.valid() {
		metrics.DroppedStarts.WithLabelValues("invalid").Inc()
		log.Printf("⚠️ 动画 %s 没有可播放的帧，忽略启动请求", anim.Name)
		return
	}

	free := -1
	for i := range e.slots {
		if e.occupied&(1<<i) != 0 {
			if e.slots[i] == anim {
				return
			}
			continue
		}
		if free == -1 {
			free = i
		}
	}
	if free == -1 {
		metrics.DroppedStarts.WithLabelValues("full").Inc()
		return
	}

	anim.reset()
	e.slots[free] = anim
	e.occupied |= 1 << free
	metrics.ActiveAnimations.Set(float64(e.Len()))
}

// Stop 停止动画并释放它的槽位，可重复调用
func (e *AnimationEngine) Stop(anim *KeyframeAnimation) {
	if anim == nil {
		return
	}
	anim.terminate()
	if i := e.slotOf(anim); i >= 0 {
		e.release(i)
	}
}

// StopAll 停止所有正在播放的动画并清空槽位表
func (e *AnimationEngine) StopAll() {
	for i := range e.slots {
		if e.occupied&(1<<i) == 0 {
			continue
		}
		e.slots[i].terminate()
		e.release(i)
	}
}

// IsActive 动画是否占用了槽位
func (e *AnimationEngine) IsActive(anim *KeyframeAnimation) bool {
	return e.slotOf(anim) >= 0
}

// Len 返回被占用的槽位数
func (e *AnimationEngine) Len() int {
	n := 0
	for i := range e.slots {
		if e.occupied&(1<<i) != 0 {
			n++
		}
	}
	return n
}

// Active 按槽位顺序返回正在播放的动画
func (e *AnimationEngine) Active() []*KeyframeAnimation {
	active := make([]*KeyframeAnimation, 0, MaxSimultaneousAnimations)
	for i := range e.slots {
		if e.occupied&(1<<i) != 0 {
			active = append(active, e.slots[i])
		}
	}
	return active
}

// ActiveNames 返回正在播放的动画名称
func (e *AnimationEngine) ActiveNames() []string {
	active := e.Active()
	names := make([]string, len(active))
	for i, anim := range active {
		names[i] = anim.Name
	}
	return names
}

// tickAll 推进所有槽位中的动画，返回最小的请求休眠时间
func (e *AnimationEngine) tickAll(delta time.Duration, s *State) time.Duration {
	sleep := Infinite
	for i := range e.slots {
		if e.occupied&(1<<i) == 0 {
			continue
		}
		if active, wanted := e.Tick(e.slots[i], delta, s); active && wanted < sleep {
			sleep = wanted
		}
	}
	return sleep
}
