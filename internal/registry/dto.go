package registry

import (
	"time"

	"github.com/edupath/aigen/internal/models"
)

// CreateConfigRequest 创建模型配置请求
type CreateConfigRequest struct {
	TaskType      string `json:"task_type" binding:"required,max=50"`
	ModelName     string `json:"model_name" binding:"required,max=100"`
	Priority      int    `json:"priority" binding:"omitempty,min=0"`
	Enabled       *bool  `json:"enabled"`
	FallbackModel string `json:"fallback_model" binding:"omitempty,max=100"`
}

// UpdateConfigRequest 更新模型配置请求
type UpdateConfigRequest struct {
	Priority      *int    `json:"priority" binding:"omitempty,min=0"`
	Enabled       *bool   `json:"enabled"`
	FallbackModel *string `json:"fallback_model" binding:"omitempty,max=100"`
}

// ConfigResponse 模型配置响应
type ConfigResponse struct {
	ID            uint      `json:"id"`
	TaskType      string    `json:"task_type"`
	ModelName     string    `json:"model_name"`
	Priority      int       `json:"priority"`
	Enabled       bool      `json:"enabled"`
	FallbackModel string    `json:"fallback_model,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListConfigsResponse 查询模型配置列表响应
type ListConfigsResponse struct {
	Configs []*ConfigResponse `json:"configs"`
	Total   int               `json:"total"`
}

// ToConfigResponse 将配置实体转换为响应对象
func ToConfigResponse(config *models.ModelConfig) *ConfigResponse {
	return &ConfigResponse{
		ID:            config.ID,
		TaskType:      string(config.TaskType),
		ModelName:     config.ModelName,
		Priority:      config.Priority,
		Enabled:       config.Enabled,
		FallbackModel: config.FallbackModel,
		CreatedAt:     config.CreatedAt,
		UpdatedAt:     config.UpdatedAt,
	}
}

// ToConfigResponseList 将配置实体列表转换为响应对象列表
func ToConfigResponseList(configs []*models.ModelConfig) []*ConfigResponse {
	responses := make([]*ConfigResponse, len(configs))
	for i, config := range configs {
		responses[i] = ToConfigResponse(config)
	}
	return responses
}
