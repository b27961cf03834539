package communication

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"keyvis/define"
	"keyvis/metrics"
	"keyvis/visualizer"
)

var (
	ErrStaleMessage = errors.New("过期的状态记录")
	ErrOwnMessage   = errors.New("收到本机发出的状态记录")
)

// LinkOptions 对端链路的参数
type LinkOptions struct {
	Side        define.Side
	Role        string        // define.ROLE_MASTER 或 define.ROLE_SLAVE
	Timeout     time.Duration // 单次请求超时
	PeerTimeout time.Duration // 超过这个时间没有收到对端记录即视为断开
	Boot        int64         // 本次启动的标识，为 0 时使用启动时间
	Clock       visualizer.Clock
}

// LinkStats 链路的运行状态
type LinkStats struct {
	Role      string    `json:"role"`
	Peer      string    `json:"peer"`
	Connected bool      `json:"connected"`
	Boot      int64     `json:"boot"`
	Sequence  uint64    `json:"sequence"`
	LastHeard time.Time `json:"lastHeard,omitempty"`
	LastPush  time.Time `json:"lastPush,omitempty"`
	LastError string    `json:"lastError,omitempty"`
}

// BridgeLink 通过 HTTP 在两半键盘之间同步状态，实现 visualizer.Link。
// master 推送本地状态，slave 以收到的状态为准。
type BridgeLink struct {
	client      Communicator
	side        define.Side
	role        string
	timeout     time.Duration
	peerTimeout time.Duration
	clock       visualizer.Clock
	boot        int64

	notify chan struct{}

	mu        sync.Mutex
	sequence  uint64
	pending   *LinkMessage
	inbox     *define.KeyboardStatus
	peers     map[string]peerCursor // 每一侧最近接受的记录
	lastHeard time.Time
	lastPush  time.Time
	lastErr   error
}

// NewBridgeLink 创建对端链路，需要调用 Run 才会真正发送
func NewBridgeLink(client Communicator, opts LinkOptions) *BridgeLink {
	if opts.Role == "" {
		opts.Role = define.ROLE_MASTER
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second
	}
	if opts.PeerTimeout <= 0 {
		opts.PeerTimeout = 3 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = visualizer.SystemClock{}
	}
	if opts.Boot == 0 {
		opts.Boot = time.Now().UnixNano()
	}
	return &BridgeLink{
		client:      client,
		side:        opts.Side,
		role:        opts.Role,
		timeout:     opts.Timeout,
		peerTimeout: opts.PeerTimeout,
		clock:       opts.Clock,
		boot:        opts.Boot,
		notify:      make(chan struct{}, 1),
		peers:       make(map[string]peerCursor),
	}
}

// Push 记录待发送的状态并通知发送协程，从不阻塞。
// 尚未发出的旧记录会被新记录覆盖。
func (l *BridgeLink) Push(status define.KeyboardStatus) error {
	if l.role != define.ROLE_MASTER {
		return nil
	}

	l.mu.Lock()
	l.sequence++
	if l.pending != nil {
		metrics.RemotePushes.WithLabelValues("replaced").Inc()
	}
	l.pending = &LinkMessage{Side: l.side.Key(), Boot: l.boot, Sequence: l.sequence, Status: status}
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
	return nil
}

// TryPull 取出最近收到的对端状态，没有新记录时返回 false
func (l *BridgeLink) TryPull() (define.KeyboardStatus, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inbox == nil {
		return define.KeyboardStatus{}, false
	}
	status := *l.inbox
	l.inbox = nil
	return status, true
}

// Connected slave 在对端超时之内收到过记录时为 true，master 始终以本地为准
func (l *BridgeLink) Connected() bool {
	if l.role != define.ROLE_SLAVE {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected()
}

func (l *BridgeLink) connected() bool {
	return !l.lastHeard.IsZero() && l.clock.Now().Sub(l.lastHeard) <= l.peerTimeout
}

// peerCursor 某一侧在一次启动内最近接受的序号
type peerCursor struct {
	boot     int64
	sequence uint64
}

// Deliver 接收对端发来的记录。
// 同一次启动内序号没有增长的记录被视为过期；启动标识变化说明对端已重启，序号重新计算。
func (l *BridgeLink) Deliver(msg LinkMessage) error {
	if msg.Side == l.side.Key() && l.side != define.SIDE_UNKNOWN {
		metrics.RemoteReceives.WithLabelValues("own").Inc()
		return ErrOwnMessage
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	last, seen := l.peers[msg.Side]
	if seen && last.boot == msg.Boot && msg.Sequence <= last.sequence {
		metrics.RemoteReceives.WithLabelValues("stale").Inc()
		return ErrStaleMessage
	}
	if seen && last.boot != msg.Boot {
		log.Printf("🔄 对端 %s 已重启，重新计算序号", msg.Side)
	}

	l.peers[msg.Side] = peerCursor{boot: msg.Boot, sequence: msg.Sequence}
	l.lastHeard = l.clock.Now()
	status := msg.Status
	l.inbox = &status
	metrics.RemoteReceives.WithLabelValues("accepted").Inc()
	return nil
}

// Ping 探测对端服务
func (l *BridgeLink) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.client.Ping(ctx)
}

// Run 发送协程，直到 ctx 结束
func (l *BridgeLink) Run(ctx context.Context) error {
	log.Printf("🔗 对端链路已启动: %s (%s, %s)", l.client.ServiceURL(), l.side, l.role)
	for {
		select {
		case <-ctx.Done():
			log.Printf("🛑 对端链路已关闭")
			return ctx.Err()
		case <-l.notify:
		}

		l.mu.Lock()
		msg := l.pending
		l.pending = nil
		l.mu.Unlock()
		if msg == nil {
			continue
		}
		l.send(ctx, *msg)
	}
}

func (l *BridgeLink) send(ctx context.Context, msg LinkMessage) {
	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	err := l.client.SendStatus(reqCtx, msg)

	l.mu.Lock()
	l.lastErr = err
	if err == nil {
		l.lastPush = l.clock.Now()
	}
	l.mu.Unlock()

	if err != nil {
		metrics.RemotePushes.WithLabelValues("error").Inc()
		log.Printf("❌ 发送状态到对端失败 (#%d): %v", msg.Sequence, err)
		return
	}
	metrics.RemotePushes.WithLabelValues("ok").Inc()
}

// Stats 返回链路的运行状态
func (l *BridgeLink) Stats() LinkStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	stats := LinkStats{
		Role:      l.role,
		Peer:      l.client.ServiceURL(),
		Connected: l.role == define.ROLE_SLAVE && l.connected(),
		Boot:      l.boot,
		Sequence:  l.sequence,
		LastHeard: l.lastHeard,
		LastPush:  l.lastPush,
	}
	if l.lastErr != nil {
		stats.LastError = l.lastErr.Error()
	}
	return stats
}
