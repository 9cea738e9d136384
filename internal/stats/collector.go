package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/edupath/aigen/internal/models"
)

// taskCounters 单个任务类型的计数器
type taskCounters struct {
	Submitted int64 `json:"submitted"`  // 提交的生成请求数
	CacheHits int64 `json:"cache_hits"` // 缓存命中数
	Completed int64 `json:"completed"`  // 成功完成数
	Failed    int64 `json:"failed"`     // 失败数
	Timeout   int64 `json:"timeout"`    // 超时数
}

// Collector 生成请求统计收集器
// 内存计数器 + 时间窗口，用于统计接口展示，不作为审计数据源（审计以交互记录为准）
type Collector struct {
	totalRequests int64 // HTTP 请求总数（原子操作）

	mu          sync.RWMutex
	byTaskType  map[models.TaskType]*taskCounters
	windowStart time.Time
	windowCount int64
	windowSize  time.Duration
}

// NewCollector 创建统计收集器
func NewCollector(windowSize time.Duration) *Collector {
	if windowSize == 0 {
		windowSize = 60 * time.Second // 默认 60 秒窗口
	}

	return &Collector{
		byTaskType:  make(map[models.TaskType]*taskCounters),
		windowStart: time.Now(),
		windowSize:  windowSize,
	}
}

// IncrementRequests 增加 HTTP 请求计数（中间件调用）
func (c *Collector) IncrementRequests() {
	atomic.AddInt64(&c.totalRequests, 1)

	c.mu.Lock()
	c.rotateLocked()
	c.windowCount++
	c.mu.Unlock()
}

// RecordSubmitted 记录一次生成请求提交
func (c *Collector) RecordSubmitted(taskType models.TaskType) {
	c.mu.Lock()
	c.countersLocked(taskType).Submitted++
	c.mu.Unlock()
}

// RecordCacheHit 记录一次缓存命中
func (c *Collector) RecordCacheHit(taskType models.TaskType) {
	c.mu.Lock()
	c.countersLocked(taskType).CacheHits++
	c.mu.Unlock()
}

// RecordOutcome 记录一次生成终态
func (c *Collector) RecordOutcome(taskType models.TaskType, status models.InteractionStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	counters := c.countersLocked(taskType)
	switch status {
	case models.StatusCompleted:
		counters.Completed++
	case models.StatusFailed:
		counters.Failed++
	case models.StatusTimeout:
		counters.Timeout++
	}
}

// Snapshot 统计快照
type Snapshot struct {
	TotalRequests int64                    `json:"total_requests"`
	CurrentQPS    float64                  `json:"current_qps"`
	ByTaskType    map[string]*taskCounters `json:"by_task_type"`
}

// GetSnapshot 获取统计快照
func (c *Collector) GetSnapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rotateLocked()

	elapsed := time.Since(c.windowStart).Seconds()
	if elapsed < 1 {
		elapsed = 1 // 避免除零
	}

	byTaskType := make(map[string]*taskCounters, len(c.byTaskType))
	for taskType, counters := range c.byTaskType {
		copied := *counters
		byTaskType[string(taskType)] = &copied
	}

	return Snapshot{
		TotalRequests: atomic.LoadInt64(&c.totalRequests),
		CurrentQPS:    float64(c.windowCount) / elapsed,
		ByTaskType:    byTaskType,
	}
}

// countersLocked 获取任务类型的计数器（需持有写锁）
func (c *Collector) countersLocked(taskType models.TaskType) *taskCounters {
	counters, exists := c.byTaskType[taskType]
	if !exists {
		counters = &taskCounters{}
		c.byTaskType[taskType] = counters
	}
	return counters
}

// rotateLocked 窗口过期后重置（需持有写锁）
func (c *Collector) rotateLocked() {
	if time.Since(c.windowStart) >= c.windowSize {
		c.windowStart = time.Now()
		c.windowCount = 0
	}
}
