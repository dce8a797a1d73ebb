package hub

import (
	"context"
	"sync"
)

// DefaultBufferSize 订阅者投递队列的默认容量
const DefaultBufferSize = 16

// Hub 进程内广播器：发布方永不阻塞，慢订阅者各自丢弃，互不影响。
// replayLatest 打开时保留最近一条消息，新订阅者入场先收到这条回放，
// 再按全局发布顺序收到后续消息。
type Hub[T any] struct {
	mu        sync.Mutex
	subs      map[uint64]chan T
	nextID    uint64
	buf       int
	replay    bool
	latest    T
	hasLatest bool
	closed    bool
}

// New 创建 Hub。buf <= 0 时取 DefaultBufferSize。
func New[T any](buf int, replayLatest bool) *Hub[T] {
	if buf <= 0 {
		buf = DefaultBufferSize
	}
	return &Hub[T]{
		subs:   make(map[uint64]chan T),
		buf:    buf,
		replay: replayLatest,
	}
}

// Publish 向所有在册订阅者投递 v，同时更新保留值。
// 投递为非阻塞：某个订阅者队列已满时只丢弃该订阅者的这一条。
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	if h.replay {
		h.latest = v
		h.hasLatest = true
	}

	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			// 慢订阅者，丢弃本条
		}
	}
}

// Subscribe 注册一个新订阅。ctx 结束等价于调用 Cancel。
func (h *Hub[T]) Subscribe(ctx context.Context) *Subscription[T] {
	h.mu.Lock()

	if h.closed {
		h.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return &Subscription[T]{ch: ch, cancelled: true}
	}

	// 容量至少为 buf+1，保证回放值一定放得进去
	ch := make(chan T, h.buf+1)
	if h.replay && h.hasLatest {
		ch <- h.latest
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	sub := &Subscription[T]{hub: h, id: id, ch: ch}

	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				sub.Cancel()
			case <-sub.done():
			}
		}()
	}

	return sub
}

// SubscriberCount 当前在册订阅者数量
func (h *Hub[T]) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close 关闭 Hub：取消所有订阅，之后的 Publish 为空操作，
// Subscribe 返回已关闭的空订阅。
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// remove 将订阅者移出注册表并关闭其队列，返回是否真的移除了
func (h *Hub[T]) remove(id uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.subs[id]
	if !ok {
		return false
	}
	delete(h.subs, id)
	close(ch)
	return true
}

// Subscription 一次独立的订阅，各订阅互不共享投递状态
type Subscription[T any] struct {
	hub *Hub[T]
	id  uint64
	ch  chan T

	mu        sync.Mutex
	cancelled bool
	doneCh    chan struct{}
}

// C 订阅消息通道。订阅取消或 Hub 关闭后该通道被关闭。
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Cancel 取消订阅，幂等。取消后 Hub 不再向其投递。
func (s *Subscription[T]) Cancel() {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	doneCh := s.doneCh
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.remove(s.id)
	}
	if doneCh != nil {
		close(doneCh)
	}
}

func (s *Subscription[T]) done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doneCh == nil {
		s.doneCh = make(chan struct{})
		if s.cancelled {
			close(s.doneCh)
		}
	}
	return s.doneCh
}
