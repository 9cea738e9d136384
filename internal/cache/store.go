package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/edupath/aigen/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrKeyEmpty 缓存键为空
	ErrKeyEmpty = errors.New("缓存键不能为空")
	// ErrContentEmpty 缓存内容为空
	ErrContentEmpty = errors.New("缓存内容不能为空")
	// ErrInvalidContentType 内容分类不合法
	ErrInvalidContentType = errors.New("不支持的内容分类")
)

// Stats 缓存统计信息
type Stats struct {
	Size      int64   `json:"size"`       // 当前有效条目数
	HitCount  int64   `json:"hit_count"`  // 缓存命中次数
	MissCount int64   `json:"miss_count"` // 缓存未命中次数
	HitRate   float64 `json:"hit_rate"`   // 缓存命中率
}

// Store 生成内容缓存
// 数据库持久化：命中的内容直接返回，不再调用供应商
// 过期条目逻辑上视为不存在，物理删除由定期 Sweep 完成
type Store struct {
	db     *gorm.DB
	hits   atomic.Int64
	misses atomic.Int64
}

// NewStore 创建缓存存储
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get 根据缓存键获取内容
// 条目不存在或已过期（expires_at <= now）均视为未命中
func (s *Store) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrKeyEmpty
	}

	var entry models.CacheEntry
	err := s.db.Where("cache_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.misses.Add(1)
			return "", false, nil
		}
		return "", false, fmt.Errorf("查询缓存失败: %w", err)
	}

	// 恰好到达过期时刻的条目同样视为未命中
	if entry.ExpiredAt(time.Now()) {
		s.misses.Add(1)
		return "", false, nil
	}

	s.hits.Add(1)
	return entry.Content, true, nil
}

// Put 写入缓存（按键覆盖）
// ttl 为 0 表示永不过期
func (s *Store) Put(key, content string, contentType models.ContentType, metadata map[string]interface{}, ttl time.Duration) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if content == "" {
		return ErrContentEmpty
	}
	if !models.IsValidContentType(contentType) {
		return ErrInvalidContentType
	}

	// 序列化元数据为 JSON
	var metadataJSON string
	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("序列化元数据失败: %w", err)
		}
		metadataJSON = string(data)
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	entry := &models.CacheEntry{
		CacheKey:    key,
		Content:     content,
		ContentType: contentType,
		Metadata:    metadataJSON,
		ExpiresAt:   expiresAt,
	}

	// 按 cache_key 冲突时覆盖全部内容字段
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "content_type", "metadata", "expires_at", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}

	return nil
}

// Invalidate 删除指定缓存键
func (s *Store) Invalidate(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}

	return s.db.Where("cache_key = ?", key).Delete(&models.CacheEntry{}).Error
}

// Sweep 物理删除已过期的条目，返回删除数量
// 由后台定时任务调用，不影响 Get 的正确性
func (s *Store) Sweep() (int64, error) {
	result := s.db.Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&models.CacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("清理过期缓存失败: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Stats 获取缓存统计
func (s *Store) Stats() (*Stats, error) {
	var size int64
	err := s.db.Model(&models.CacheEntry{}).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&size).Error
	if err != nil {
		return nil, fmt.Errorf("统计缓存条目失败: %w", err)
	}

	hits := s.hits.Load()
	misses := s.misses.Load()

	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return &Stats{
		Size:      size,
		HitCount:  hits,
		MissCount: misses,
		HitRate:   hitRate,
	}, nil
}
