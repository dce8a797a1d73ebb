package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvOne[T any](t *testing.T, sub *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		require.True(t, ok, "subscription channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		panic("unreachable")
	}
}

func requireNoDelivery[T any](t *testing.T, sub *Subscription[T]) {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		if ok {
			t.Fatalf("unexpected delivery: %v", v)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestReplayThenLive(t *testing.T) {
	h := New[int](8, true)
	defer h.Close()

	// 无订阅者时连续发布 A、B、C
	h.Publish(1)
	h.Publish(2)
	h.Publish(3)

	sub := h.Subscribe(context.Background())
	defer sub.Cancel()

	// 迟到订阅者只回放最近一条
	assert.Equal(t, 3, recvOne(t, sub))
	requireNoDelivery(t, sub)

	h.Publish(4)
	h.Publish(5)
	assert.Equal(t, 4, recvOne(t, sub))
	assert.Equal(t, 5, recvOne(t, sub))
}

func TestReplayToEachNewSubscriber(t *testing.T) {
	h := New[string](8, true)
	defer h.Close()

	s1 := h.Subscribe(context.Background())
	defer s1.Cancel()

	h.Publish("D")

	s2 := h.Subscribe(context.Background())
	defer s2.Cancel()

	h.Publish("E")

	assert.Equal(t, "D", recvOne(t, s1))
	assert.Equal(t, "E", recvOne(t, s1))
	assert.Equal(t, "D", recvOne(t, s2), "late subscriber replays the retained item")
	assert.Equal(t, "E", recvOne(t, s2))
}

func TestNoReplayMode(t *testing.T) {
	h := New[int](8, false)
	defer h.Close()

	h.Publish(1)

	sub := h.Subscribe(context.Background())
	defer sub.Cancel()

	requireNoDelivery(t, sub)

	h.Publish(2)
	assert.Equal(t, 2, recvOne(t, sub))
}

func TestTotalOrderAcrossSubscribers(t *testing.T) {
	const n = 200
	h := New[int](n+1, true)
	defer h.Close()

	s1 := h.Subscribe(context.Background())
	defer s1.Cancel()
	s2 := h.Subscribe(context.Background())
	defer s2.Cancel()

	// 多个发布方并发发布
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < n/4; i++ {
				h.Publish(base + i)
			}
		}(w * (n / 4))
	}
	wg.Wait()

	got1 := make([]int, 0, n)
	got2 := make([]int, 0, n)
	for i := 0; i < n; i++ {
		got1 = append(got1, recvOne(t, s1))
		got2 = append(got2, recvOne(t, s2))
	}

	// 谁先谁后由发布竞争决定，但两个订阅者必须观察到同一全局顺序
	assert.Equal(t, got1, got2)
}

func TestSlowSubscriberDropIsolation(t *testing.T) {
	h := New[int](1, true) // 投递队列容量 2
	defer h.Close()

	slow := h.Subscribe(context.Background())
	defer slow.Cancel()
	fast := h.Subscribe(context.Background())
	defer fast.Cancel()

	const n = 10
	for i := 1; i <= n; i++ {
		h.Publish(i)
		// 快订阅者持续消费，不会饱和
		assert.Equal(t, i, recvOne(t, fast))
	}

	// 慢订阅者只留下了队列装得下的前几条，其余被丢弃
	assert.Equal(t, 1, recvOne(t, slow))
	assert.Equal(t, 2, recvOne(t, slow))
	requireNoDelivery(t, slow)

	// 饱和解除后恢复接收
	h.Publish(99)
	assert.Equal(t, 99, recvOne(t, slow))
	assert.Equal(t, 99, recvOne(t, fast))
}

func TestCancelIsIdempotentAndStopsDelivery(t *testing.T) {
	h := New[int](8, true)
	defer h.Close()

	sub := h.Subscribe(context.Background())
	require.Equal(t, 1, h.SubscriberCount())

	sub.Cancel()
	sub.Cancel()
	assert.Equal(t, 0, h.SubscriberCount())

	// 取消后的发布不会再触达该订阅者
	h.Publish(42)
	_, ok := <-sub.C()
	assert.False(t, ok, "cancelled subscription channel must be closed")
}

func TestContextCancelReleasesSubscription(t *testing.T) {
	h := New[int](8, true)
	defer h.Close()

	ctx, cancel := context.WithCancel(context.Background())
	h.Subscribe(ctx)
	require.Equal(t, 1, h.SubscriberCount())

	cancel()
	assert.Eventually(t, func() bool {
		return h.SubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestPublishWithoutSubscribersRetainsLatest(t *testing.T) {
	h := New[int](8, true)
	defer h.Close()

	// 没有任何订阅者也不会失败
	h.Publish(7)

	sub := h.Subscribe(context.Background())
	defer sub.Cancel()
	assert.Equal(t, 7, recvOne(t, sub))
}

func TestClose(t *testing.T) {
	h := New[int](8, true)

	sub := h.Subscribe(context.Background())
	h.Close()
	h.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)

	// 关闭后发布与订阅均为安全的空操作
	h.Publish(1)
	late := h.Subscribe(context.Background())
	_, ok = <-late.C()
	assert.False(t, ok)
	late.Cancel()
	sub.Cancel()
}

func TestConcurrentPublishSubscribeCancel(t *testing.T) {
	h := New[int](4, true)
	defer h.Close()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h.Publish(i)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				sub := h.Subscribe(context.Background())
				select {
				case <-sub.C():
				default:
				}
				sub.Cancel()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.SubscriberCount())
}
