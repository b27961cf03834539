package visualizer

// Policy 由应用提供，决定在状态变化时启动或停止哪些动画。
// 所有方法都在调度循环中调用，不能阻塞。
type Policy interface {
	// Init 在调度循环开始前调用一次
	Init(s *State)
	// StatusUpdate 可视化已启用且状态发生变化时调用
	StatusUpdate(s *State)
	// Suspend 键盘进入挂起状态时调用，此时所有动画都已停止
	Suspend(s *State)
	// Resume 键盘离开挂起状态时调用，此时所有动画都已停止
	Resume(s *State)
}

// NopPolicy 什么都不做，可以嵌入到只关心部分回调的策略中
type NopPolicy struct{}

func (NopPolicy) Init(*State)         {}
func (NopPolicy) StatusUpdate(*State) {}
func (NopPolicy) Suspend(*State)      {}
func (NopPolicy) Resume(*State)       {}
