package models

import "time"

// CacheEntry 生成内容缓存条目
// 按调用方提供的 cache_key 存储成功的生成结果，命中时不再调用供应商
type CacheEntry struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CacheKey    string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"cache_key"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	ContentType ContentType `gorm:"type:varchar(20);default:''" json:"content_type,omitempty"`
	Metadata    string      `gorm:"type:json" json:"metadata,omitempty"` // 额外元数据（JSON 格式）
	ExpiresAt   *time.Time  `gorm:"index" json:"expires_at,omitempty"`   // 为空表示永不过期
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName 指定表名
func (CacheEntry) TableName() string {
	return "cache_entries"
}

// ExpiredAt 判断条目在给定时刻是否已过期
// 约定：now >= expires_at 即视为过期（恰好等于也算过期）
func (e *CacheEntry) ExpiredAt(now time.Time) bool {
	if e.ExpiresAt == nil {
		return false
	}
	return !now.Before(*e.ExpiresAt)
}
