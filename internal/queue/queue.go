package queue

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/edupath/aigen/internal/dispatcher"
	"github.com/edupath/aigen/internal/stats"
)

var (
	// ErrQueueFull 队列已满
	ErrQueueFull = errors.New("任务队列已满")
	// ErrQueueClosed 队列已关闭
	ErrQueueClosed = errors.New("任务队列已关闭")
)

// Enqueuer 任务提交接口
// 调用方提交后立即返回，实际的供应商调用在后台工作协程中执行
type Enqueuer interface {
	Enqueue(req dispatcher.Request) error
}

// WorkerPool 进程内任务队列 + 工作协程池
// 每个任务独立执行，任务间无共享状态，无需跨任务加锁
// 至少一次语义下的重复提交表现为重复的交互记录（可审计）或缓存命中，不构成正确性问题
type WorkerPool struct {
	dispatcher *dispatcher.Dispatcher
	collector  *stats.Collector
	tasks      chan dispatcher.Request
	workers    int

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWorkerPool 创建工作协程池
func NewWorkerPool(d *dispatcher.Dispatcher, workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}

	return &WorkerPool{
		dispatcher: d,
		tasks:      make(chan dispatcher.Request, queueSize),
		workers:    workers,
	}
}

// SetCollector 注册统计收集器（可选）
func (p *WorkerPool) SetCollector(collector *stats.Collector) {
	p.collector = collector
}

// Start 启动工作协程
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	p.started = true

	workerCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(workerCtx, i)
	}

	log.Printf("🚀 任务队列已启动: workers=%d, queue_size=%d", p.workers, cap(p.tasks))
}

// Enqueue 提交任务（非阻塞，队列满时返回错误）
// 发送必须与 Stop 的 close(p.tasks) 互斥，否则可能向已关闭的通道发送
func (p *WorkerPool) Enqueue(req dispatcher.Request) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrQueueClosed
	}

	select {
	case p.tasks <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop 停止接收新任务，取消在途任务的等待并等待工作协程退出
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()

	if p.cancel != nil {
		p.cancel()
	}

	log.Println("👋 任务队列已停止")
}

// run 工作协程主循环
func (p *WorkerPool) run(ctx context.Context, id int) {
	defer p.wg.Done()

	for req := range p.tasks {
		result := p.dispatcher.Generate(ctx, req)

		if p.collector != nil {
			if result.FromCache {
				p.collector.RecordCacheHit(req.TaskType)
			} else {
				p.collector.RecordOutcome(req.TaskType, result.Status)
			}
		}

		if result.Success() {
			log.Printf("✅ worker-%d 请求 %s 完成: status=%s attempts=%d cost_cents=%d",
				id, req.RequestID, result.Status, result.Attempts, result.CostCents)
		} else {
			log.Printf("❌ worker-%d 请求 %s 失败: status=%s reason=%s",
				id, req.RequestID, result.Status, result.Reason)
		}
	}
}
