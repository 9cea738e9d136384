package models

import "time"

// ModelConfig 模型配置
// 每个 (任务类型, 模型) 一条记录，按优先级决定调用顺序，支持单级降级
type ModelConfig struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TaskType      TaskType  `gorm:"type:varchar(50);not null;index;uniqueIndex:idx_task_model" json:"task_type"`
	ModelName     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_task_model" json:"model_name"`
	Priority      int       `gorm:"default:0;not null" json:"priority"`   // 数字越小优先级越高
	Enabled       bool      `gorm:"default:true;not null" json:"enabled"` // 是否启用
	FallbackModel string    `gorm:"type:varchar(100);default:''" json:"fallback_model"` // 降级模型名称，空表示无降级
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ModelConfig) TableName() string {
	return "model_configs"
}

// HasFallback 是否配置了降级模型
func (c *ModelConfig) HasFallback() bool {
	return c.FallbackModel != ""
}
