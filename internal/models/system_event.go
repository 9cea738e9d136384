package models

import "time"

// SystemEvent 系统事件日志
// 用于记录系统重要事件，如模型降级、配置变更、缓存清理等
type SystemEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"` // failover, config_change, etc.
	Message   string    `gorm:"type:text;not null" json:"message"`
	Level     string    `gorm:"type:varchar(20);not null;default:'info'" json:"level"` // info, warning, error
	Metadata  string    `gorm:"type:json" json:"metadata,omitempty"`                   // 额外的元数据（JSON 格式）
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (SystemEvent) TableName() string {
	return "system_events"
}

// EventType 事件类型常量
const (
	EventTypeFailover       = "failover"        // 模型降级
	EventTypeConfigChange   = "config_change"   // 配置变更
	EventTypeGenerateFailed = "generate_failed" // 生成请求失败
	EventTypeCacheSweep     = "cache_sweep"     // 缓存清理
	EventTypeRetention      = "retention"       // 历史数据清理
)

// EventLevel 事件级别常量
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)
