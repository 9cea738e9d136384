package registry

import (
	"sync"
	"time"

	"github.com/edupath/aigen/internal/models"
)

// ==================== 候选缓存 ====================

// candidateEntry 候选列表缓存条目
type candidateEntry struct {
	candidates []*Candidate
	expiresAt  time.Time
}

// CandidateCacheConfig 候选缓存配置
type CandidateCacheConfig struct {
	TTL         time.Duration `yaml:"ttl"`          // 默认: 5分钟
	CleanupTime time.Duration `yaml:"cleanup_time"` // 默认: 10分钟
}

// DefaultCandidateCacheConfig 默认候选缓存配置
func DefaultCandidateCacheConfig() *CandidateCacheConfig {
	return &CandidateCacheConfig{
		TTL:         5 * time.Minute,
		CleanupTime: 10 * time.Minute,
	}
}

// CandidateCache 任务类型 → 候选列表的内存缓存
// 配置变更时由 Service 主动失效，过期条目由后台协程定期清理
type CandidateCache struct {
	mu          sync.RWMutex
	data        map[models.TaskType]*candidateEntry
	config      *CandidateCacheConfig
	stopCleanup chan struct{}
}

// NewCandidateCache 创建候选缓存
func NewCandidateCache(config *CandidateCacheConfig) *CandidateCache {
	if config == nil {
		config = DefaultCandidateCacheConfig()
	}

	cache := &CandidateCache{
		data:        make(map[models.TaskType]*candidateEntry),
		config:      config,
		stopCleanup: make(chan struct{}),
	}

	// 启动定期清理
	go cache.startCleanup()

	return cache
}

// Get 获取缓存的候选列表
func (c *CandidateCache) Get(taskType models.TaskType) ([]*Candidate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[taskType]
	if !exists {
		return nil, false
	}

	// 检查是否过期
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}

	// 返回副本，避免调用方修改缓存内容
	result := make([]*Candidate, len(entry.candidates))
	for i, candidate := range entry.candidates {
		copied := *candidate
		result[i] = &copied
	}

	return result, true
}

// Set 写入候选列表
// 与 Get 对称的深拷贝：调用方后续修改自己持有的候选不会污染缓存
func (c *CandidateCache) Set(taskType models.TaskType, candidates []*Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dataCopy := make([]*Candidate, len(candidates))
	for i, candidate := range candidates {
		copied := *candidate
		dataCopy[i] = &copied
	}

	c.data[taskType] = &candidateEntry{
		candidates: dataCopy,
		expiresAt:  time.Now().Add(c.config.TTL),
	}
}

// Invalidate 失效指定任务类型的缓存
func (c *CandidateCache) Invalidate(taskType models.TaskType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, taskType)
}

// Clear 清空所有缓存
func (c *CandidateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[models.TaskType]*candidateEntry)
}

// Close 关闭缓存，停止清理协程
func (c *CandidateCache) Close() {
	close(c.stopCleanup)
}

// startCleanup 启动定期清理
func (c *CandidateCache) startCleanup() {
	ticker := time.NewTicker(c.config.CleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

// cleanup 删除过期条目
func (c *CandidateCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for taskType, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, taskType)
		}
	}
}
