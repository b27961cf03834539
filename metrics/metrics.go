package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "keyvis"
)

var (
	// SchedulerPasses 调度循环执行的轮数
	SchedulerPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_passes_total",
			Help:      "Total number of scheduler loop passes",
		},
	)

	// SchedulerSleep 最近一轮计算出的休眠时长，-1 表示无限等待
	SchedulerSleep = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_sleep_seconds",
			Help:      "Sleep bound computed by the last scheduler pass (-1 = until woken)",
		},
	)

	// FramesApplied 帧效果被调用的次数
	FramesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_applied_total",
			Help:      "Total number of frame effect invocations",
		},
		[]string{"animation"},
	)

	// DroppedStarts 槽位已满或动画无效时被丢弃的启动请求
	DroppedStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_starts_total",
			Help:      "Animation start requests silently dropped",
		},
		[]string{"reason"}, // full/invalid
	)

	// ActiveAnimations 当前占用的槽位数
	ActiveAnimations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_animations",
			Help:      "Number of occupied animation slots",
		},
	)

	// StatusReports 状态上报次数
	StatusReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_reports_total",
			Help:      "Status reports by kind and whether the value changed",
		},
		[]string{"kind", "changed"}, // kind: local/remote/suspend/resume
	)

	// WakeSignals 发给调度循环的唤醒信号
	WakeSignals = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wake_signals_total",
			Help:      "Total number of wake signals raised",
		},
	)

	// RemotePushes 推送到对端的状态记录
	RemotePushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_pushes_total",
			Help:      "Status records pushed to the peer",
		},
		[]string{"result"}, // success/error/dropped
	)

	// RemoteReceives 从对端收到的状态记录
	RemoteReceives = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_receives_total",
			Help:      "Status records received from the peer",
		},
		[]string{"result"}, // accepted/stale
	)

	// Enabled 可视化是否启用
	Enabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "visualizer_enabled",
			Help:      "1 when visualization is enabled",
		},
	)
)

// BoolLabel 把布尔值转成标签值
func BoolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
