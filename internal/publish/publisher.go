package publish

import (
	"log"
	"sync"
)

// Publisher 结果发布接口
// 发后即忘，至多一次送达，不要求订阅方确认
type Publisher interface {
	Publish(topic string, payload interface{})
}

// ==================== 内存发布器 ====================

// Message 发布消息
type Message struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// MemoryPublisher 进程内发布器
// 订阅方按主题持有带缓冲的通道，通道满时丢弃消息（慢订阅方不阻塞发布路径）
type MemoryPublisher struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Message
	bufferSize  int
	closed      bool
}

// NewMemoryPublisher 创建进程内发布器
func NewMemoryPublisher(bufferSize int) *MemoryPublisher {
	if bufferSize <= 0 {
		bufferSize = 16
	}

	return &MemoryPublisher{
		subscribers: make(map[string][]chan Message),
		bufferSize:  bufferSize,
	}
}

// Publish 发布消息到主题
func (p *MemoryPublisher) Publish(topic string, payload interface{}) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return
	}

	message := Message{Topic: topic, Payload: payload}
	for _, ch := range p.subscribers[topic] {
		// 非阻塞发送：订阅方处理不过来时直接丢弃
		select {
		case ch <- message:
		default:
		}
	}
}

// Subscribe 订阅主题，返回接收通道
func (p *MemoryPublisher) Subscribe(topic string) <-chan Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Message, p.bufferSize)
	p.subscribers[topic] = append(p.subscribers[topic], ch)
	return ch
}

// Close 关闭发布器，释放所有订阅通道
func (p *MemoryPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	for _, channels := range p.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	p.subscribers = make(map[string][]chan Message)
}

// ==================== 日志发布器 ====================

// LogPublisher 仅记录日志的发布器（无订阅方场景下的兜底实现）
type LogPublisher struct{}

// Publish 将消息写入日志
func (p *LogPublisher) Publish(topic string, payload interface{}) {
	log.Printf("📢 发布事件 topic=%s payload=%+v", topic, payload)
}
