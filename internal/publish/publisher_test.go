package publish

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher_PublishSubscribe(t *testing.T) {
	publisher := NewMemoryPublisher(4)
	defer publisher.Close()

	messages := publisher.Subscribe("generation.lesson_content.key-1")

	publisher.Publish("generation.lesson_content.key-1", "payload-1")

	select {
	case msg := <-messages:
		assert.Equal(t, "generation.lesson_content.key-1", msg.Topic)
		assert.Equal(t, "payload-1", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("期望收到消息")
	}
}

func TestMemoryPublisher_TopicIsolation(t *testing.T) {
	publisher := NewMemoryPublisher(4)
	defer publisher.Close()

	messagesA := publisher.Subscribe("topic-a")
	messagesB := publisher.Subscribe("topic-b")

	publisher.Publish("topic-a", "for-a")

	select {
	case msg := <-messagesA:
		assert.Equal(t, "for-a", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("期望 topic-a 收到消息")
	}

	// topic-b 不应收到 topic-a 的消息
	select {
	case msg := <-messagesB:
		t.Fatalf("topic-b 收到了不属于它的消息: %+v", msg)
	default:
	}
}

func TestMemoryPublisher_MultipleSubscribers(t *testing.T) {
	publisher := NewMemoryPublisher(4)
	defer publisher.Close()

	first := publisher.Subscribe("topic")
	second := publisher.Subscribe("topic")

	publisher.Publish("topic", "broadcast")

	for _, ch := range []<-chan Message{first, second} {
		select {
		case msg := <-ch:
			assert.Equal(t, "broadcast", msg.Payload)
		case <-time.After(time.Second):
			t.Fatal("期望每个订阅方都收到消息")
		}
	}
}

func TestMemoryPublisher_DropsWhenBufferFull(t *testing.T) {
	publisher := NewMemoryPublisher(1)
	defer publisher.Close()

	messages := publisher.Subscribe("topic")

	// 缓冲只有 1：第二条消息被丢弃，发布方不阻塞
	publisher.Publish("topic", "first")
	publisher.Publish("topic", "dropped")

	select {
	case msg := <-messages:
		assert.Equal(t, "first", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("期望收到第一条消息")
	}

	select {
	case msg := <-messages:
		t.Fatalf("缓冲满时的消息应被丢弃: %+v", msg)
	default:
	}
}

func TestMemoryPublisher_PublishAfterClose(t *testing.T) {
	publisher := NewMemoryPublisher(4)

	messages := publisher.Subscribe("topic")
	publisher.Close()

	// 关闭后发布为空操作，不 panic
	publisher.Publish("topic", "ignored")

	_, open := <-messages
	require.False(t, open, "订阅通道应已关闭")

	// 重复关闭安全
	publisher.Close()
}
