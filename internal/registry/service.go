package registry

import (
	"errors"
	"strings"

	"github.com/edupath/aigen/internal/models"
)

var (
	// ErrInvalidTaskType 任务类型不在封闭集合内
	ErrInvalidTaskType = errors.New("未知的任务类型")
	// ErrUnsupportedModel 模型标识符不受支持
	ErrUnsupportedModel = errors.New("不支持的模型标识符")
	// ErrUnsupportedFallback 降级模型标识符不受支持
	ErrUnsupportedFallback = errors.New("不支持的降级模型标识符")
	// ErrFallbackSelfReference 降级模型不能指向自身
	ErrFallbackSelfReference = errors.New("降级模型不能指向自身")
	// ErrNegativePriority 优先级不能为负数
	ErrNegativePriority = errors.New("优先级不能为负数")
)

// Service 模型配置业务逻辑层
// 仅由运维接口调用，分发器对配置只读
type Service struct {
	repo        *Repository
	invalidator CacheInvalidator
}

// CacheInvalidator 配置变更时需要失效的缓存
type CacheInvalidator interface {
	Invalidate(taskType models.TaskType)
}

// NewService 创建 Service 实例
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SetCacheInvalidator 注册缓存失效回调
func (s *Service) SetCacheInvalidator(invalidator CacheInvalidator) {
	s.invalidator = invalidator
}

// CreateConfig 创建模型配置
func (s *Service) CreateConfig(req CreateConfigRequest) (*ConfigResponse, error) {
	taskType := models.TaskType(strings.TrimSpace(req.TaskType))
	modelName := strings.TrimSpace(req.ModelName)

	// 验证输入参数
	if err := s.validate(taskType, modelName, req.Priority, req.FallbackModel); err != nil {
		return nil, err
	}

	// 检查 (任务类型, 模型) 是否已存在
	exists, err := s.repo.CheckExists(taskType, modelName, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConfigExists
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	// 创建配置实体
	config := &models.ModelConfig{
		TaskType:      taskType,
		ModelName:     modelName,
		Priority:      req.Priority,
		Enabled:       enabled,
		FallbackModel: strings.TrimSpace(req.FallbackModel),
	}

	// 保存到数据库
	if err := s.repo.Create(config); err != nil {
		return nil, err
	}

	s.invalidate(taskType)

	return ToConfigResponse(config), nil
}

// GetConfig 根据 ID 获取配置
func (s *Service) GetConfig(id uint) (*ConfigResponse, error) {
	config, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	return ToConfigResponse(config), nil
}

// ListConfigs 查询配置列表
// taskType 为空时返回全部配置
func (s *Service) ListConfigs(taskType string) (*ListConfigsResponse, error) {
	var configs []*models.ModelConfig
	var err error

	if taskType != "" {
		t := models.TaskType(taskType)
		if !models.IsValidTaskType(t) {
			return nil, ErrInvalidTaskType
		}
		configs, err = s.repo.FindByTaskType(t)
	} else {
		configs, err = s.repo.FindAll()
	}

	if err != nil {
		return nil, err
	}

	return &ListConfigsResponse{
		Configs: ToConfigResponseList(configs),
		Total:   len(configs),
	}, nil
}

// UpdateConfig 更新配置
// 任务类型与模型名称不可变更，只允许调整优先级、启用状态和降级模型
func (s *Service) UpdateConfig(id uint, req UpdateConfigRequest) (*ConfigResponse, error) {
	// 查找现有配置
	config, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	// 更新字段
	updated := false

	if req.Priority != nil {
		if *req.Priority < 0 {
			return nil, ErrNegativePriority
		}
		if *req.Priority != config.Priority {
			config.Priority = *req.Priority
			updated = true
		}
	}

	if req.Enabled != nil && *req.Enabled != config.Enabled {
		config.Enabled = *req.Enabled
		updated = true
	}

	if req.FallbackModel != nil {
		fallback := strings.TrimSpace(*req.FallbackModel)
		if err := s.validateFallback(config.ModelName, fallback); err != nil {
			return nil, err
		}
		if fallback != config.FallbackModel {
			config.FallbackModel = fallback
			updated = true
		}
	}

	// 如果有更新，保存到数据库
	if updated {
		if err := s.repo.Update(config); err != nil {
			return nil, err
		}
		s.invalidate(config.TaskType)
	}

	return ToConfigResponse(config), nil
}

// DeleteConfig 删除配置
func (s *Service) DeleteConfig(id uint) error {
	// 检查配置是否存在
	config, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.invalidate(config.TaskType)
	return nil
}

// validate 验证创建参数
func (s *Service) validate(taskType models.TaskType, modelName string, priority int, fallback string) error {
	if !models.IsValidTaskType(taskType) {
		return ErrInvalidTaskType
	}

	if !models.IsSupportedModel(modelName) {
		return ErrUnsupportedModel
	}

	if priority < 0 {
		return ErrNegativePriority
	}

	return s.validateFallback(modelName, strings.TrimSpace(fallback))
}

// validateFallback 验证降级模型（空表示无降级）
func (s *Service) validateFallback(modelName, fallback string) error {
	if fallback == "" {
		return nil
	}

	if !models.IsSupportedModel(fallback) {
		return ErrUnsupportedFallback
	}

	if fallback == modelName {
		return ErrFallbackSelfReference
	}

	return nil
}

// invalidate 失效任务类型对应的候选缓存
func (s *Service) invalidate(taskType models.TaskType) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(taskType)
	}
}
