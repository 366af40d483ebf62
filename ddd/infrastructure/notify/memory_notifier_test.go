package notify

import (
	"context"
	"testing"
	"time"

	"reel-service/ddd/domain/gateway"
)

func update(videoUUID, stage string, progress int) *gateway.StatusUpdate {
	return &gateway.StatusUpdate{
		VideoUUID: videoUUID,
		Stage:     stage,
		Progress:  progress,
		Timestamp: time.Now().Unix(),
	}
}

func TestMemoryNotifierPublishSubscribe(t *testing.T) {
	n := NewMemoryNotifier()
	defer n.Close()

	sub, err := n.Subscribe(context.Background(), "video-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Close()

	if err := n.Publish(context.Background(), update("video-1", "transcription", 40)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-sub.Updates():
		if got.Stage != "transcription" || got.Progress != 40 {
			t.Errorf("received update = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestMemoryNotifierIsolatesVideos(t *testing.T) {
	n := NewMemoryNotifier()
	defer n.Close()

	subA, _ := n.Subscribe(context.Background(), "video-a")
	defer subA.Close()

	if err := n.Publish(context.Background(), update("video-b", "analysis", 60)); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-subA.Updates():
		t.Errorf("subscriber for video-a received update for %s", got.VideoUUID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryNotifierDropsOldestWhenSlow(t *testing.T) {
	n := NewMemoryNotifier()
	defer n.Close()

	sub, _ := n.Subscribe(context.Background(), "video-1")
	defer sub.Close()

	// 订阅者不消费，溢出后丢弃最旧的
	total := 20
	for i := 0; i < total; i++ {
		if err := n.Publish(context.Background(), update("video-1", "reel_generation", 80+i%20)); err != nil {
			t.Fatal(err)
		}
	}

	received := 0
	for {
		select {
		case <-sub.Updates():
			received++
			continue
		default:
		}
		break
	}
	if received == 0 || received >= total {
		t.Errorf("received = %d, want some updates dropped", received)
	}
}

func TestMemoryNotifierClosedSubscription(t *testing.T) {
	n := NewMemoryNotifier()
	defer n.Close()

	sub, _ := n.Subscribe(context.Background(), "video-1")
	if err := sub.Close(); err != nil {
		t.Fatal(err)
	}

	// 关闭后的订阅者不再接收，Publish也不会panic
	if err := n.Publish(context.Background(), update("video-1", "completed", 100)); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-sub.Updates(); ok {
		t.Error("closed subscription channel should be drained and closed")
	}
}

func TestMemoryNotifierCloseRejectsFurtherUse(t *testing.T) {
	n := NewMemoryNotifier()
	sub, _ := n.Subscribe(context.Background(), "video-1")

	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
	// 订阅通道随之关闭
	if _, ok := <-sub.Updates(); ok {
		t.Error("subscription should be closed when the notifier closes")
	}

	if err := n.Publish(context.Background(), update("video-1", "completed", 100)); err == nil {
		t.Error("publish after close should fail")
	}
	if _, err := n.Subscribe(context.Background(), "video-1"); err == nil {
		t.Error("subscribe after close should fail")
	}
	// 重复关闭幂等
	if err := n.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}
