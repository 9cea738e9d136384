package registry

import (
	"fmt"

	"github.com/edupath/aigen/internal/models"
)

// ==================== 候选解析 ====================

// Candidate 候选模型
// 解析结果按调用顺序排列：主模型在前，降级模型在后
type Candidate struct {
	TaskType  models.TaskType `json:"task_type"`
	ModelName string          `json:"model_name"`
	Priority  int             `json:"priority"`
}

// ResolveError 候选解析错误
// 配置类错误：不重试，直接向调用方返回失败
type ResolveError struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	TaskType models.TaskType `json:"task_type,omitempty"`
}

func (e *ResolveError) Error() string {
	return e.Message
}

// NewUnknownTaskTypeError 创建未知任务类型错误
func NewUnknownTaskTypeError(taskType models.TaskType) *ResolveError {
	return &ResolveError{
		Code:     "UNKNOWN_TASK_TYPE",
		Message:  fmt.Sprintf("未知的任务类型 '%s'", taskType),
		TaskType: taskType,
	}
}

// NewNoEnabledModelError 创建无可用模型错误
func NewNoEnabledModelError(taskType models.TaskType) *ResolveError {
	return &ResolveError{
		Code:     "NO_ENABLED_MODEL",
		Message:  fmt.Sprintf("任务类型 '%s' 没有启用的模型配置", taskType),
		TaskType: taskType,
	}
}

// Resolver 模型选择解析器
// 根据任务类型从模型配置中解析出有序候选列表，带 TTL 缓存
type Resolver struct {
	repo  *Repository
	cache *CandidateCache
}

// NewResolver 创建解析器
func NewResolver(repo *Repository, cacheConfig *CandidateCacheConfig) *Resolver {
	return &Resolver{
		repo:  repo,
		cache: NewCandidateCache(cacheConfig),
	}
}

// PrimaryModel 返回任务类型下优先级最高的启用配置
// 没有启用配置时返回 NO_ENABLED_MODEL 错误
func (r *Resolver) PrimaryModel(taskType models.TaskType) (*models.ModelConfig, error) {
	if !models.IsValidTaskType(taskType) {
		return nil, NewUnknownTaskTypeError(taskType)
	}

	configs, err := r.repo.FindEnabledByTaskType(taskType)
	if err != nil {
		return nil, fmt.Errorf("查询模型配置失败: %w", err)
	}

	if len(configs) == 0 {
		return nil, NewNoEnabledModelError(taskType)
	}

	// FindEnabledByTaskType 已按 (priority, id) 排序
	return configs[0], nil
}

// FallbackModel 返回主模型配置的降级模型
// 仅当主模型声明了降级、且该降级模型在同一任务类型下启用时返回；否则返回 nil
func (r *Resolver) FallbackModel(taskType models.TaskType) (*models.ModelConfig, error) {
	primary, err := r.PrimaryModel(taskType)
	if err != nil {
		return nil, err
	}

	return r.fallbackOf(primary)
}

// ResolveCandidates 解析任务类型的有序候选列表
// 结果为 [主模型] 或 [主模型, 降级模型]，降级只有一级，不追溯降级模型自身的降级
func (r *Resolver) ResolveCandidates(taskType models.TaskType) ([]*Candidate, error) {
	if !models.IsValidTaskType(taskType) {
		return nil, NewUnknownTaskTypeError(taskType)
	}

	// 尝试从缓存获取
	if cached, found := r.cache.Get(taskType); found {
		return cached, nil
	}

	primary, err := r.PrimaryModel(taskType)
	if err != nil {
		return nil, err
	}

	candidates := []*Candidate{toCandidate(primary)}

	fallback, err := r.fallbackOf(primary)
	if err != nil {
		return nil, err
	}
	if fallback != nil && fallback.ModelName != primary.ModelName {
		candidates = append(candidates, toCandidate(fallback))
	}

	// 存入缓存
	r.cache.Set(taskType, candidates)

	return candidates, nil
}

// Invalidate 失效指定任务类型的候选缓存（实现 CacheInvalidator）
func (r *Resolver) Invalidate(taskType models.TaskType) {
	r.cache.Invalidate(taskType)
}

// Close 关闭解析器，释放缓存资源
func (r *Resolver) Close() error {
	r.cache.Close()
	return nil
}

// fallbackOf 查找配置声明的降级模型
func (r *Resolver) fallbackOf(primary *models.ModelConfig) (*models.ModelConfig, error) {
	if !primary.HasFallback() {
		return nil, nil
	}

	fallback, err := r.repo.FindByTaskTypeAndModel(primary.TaskType, primary.FallbackModel)
	if err != nil {
		if err == ErrConfigNotFound {
			// 声明的降级模型未在该任务类型下配置，视为无降级
			return nil, nil
		}
		return nil, fmt.Errorf("查询降级模型配置失败: %w", err)
	}

	// 降级模型必须自身处于启用状态
	if !fallback.Enabled {
		return nil, nil
	}

	return fallback, nil
}

// toCandidate 将配置实体转换为候选
func toCandidate(config *models.ModelConfig) *Candidate {
	return &Candidate{
		TaskType:  config.TaskType,
		ModelName: config.ModelName,
		Priority:  config.Priority,
	}
}
