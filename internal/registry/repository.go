package registry

import (
	"errors"

	"github.com/edupath/aigen/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrConfigNotFound 模型配置不存在
	ErrConfigNotFound = errors.New("model config not found")
	// ErrConfigExists 同一任务类型下模型配置已存在
	ErrConfigExists = errors.New("model config already exists for task type")
)

// Repository 模型配置数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建模型配置
func (r *Repository) Create(config *models.ModelConfig) error {
	// 使用 Select 明确指定要保存的字段
	return r.db.Select("TaskType", "ModelName", "Priority", "Enabled", "FallbackModel").
		Create(config).Error
}

// FindByID 根据 ID 查找配置
func (r *Repository) FindByID(id uint) (*models.ModelConfig, error) {
	var config models.ModelConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}

// FindByTaskType 查找某任务类型下的所有配置
// 排序规则：priority 升序，相同优先级按插入顺序（ID 升序）
func (r *Repository) FindByTaskType(taskType models.TaskType) ([]*models.ModelConfig, error) {
	var configs []*models.ModelConfig
	err := r.db.Where("task_type = ?", taskType).
		Order("priority ASC, id ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// FindEnabledByTaskType 查找某任务类型下启用的配置（同样的确定性排序）
func (r *Repository) FindEnabledByTaskType(taskType models.TaskType) ([]*models.ModelConfig, error) {
	var configs []*models.ModelConfig
	err := r.db.Where("task_type = ? AND enabled = ?", taskType, true).
		Order("priority ASC, id ASC").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// FindByTaskTypeAndModel 根据任务类型和模型名称查找配置
func (r *Repository) FindByTaskTypeAndModel(taskType models.TaskType, modelName string) (*models.ModelConfig, error) {
	var config models.ModelConfig
	err := r.db.Where("task_type = ? AND model_name = ?", taskType, modelName).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &config, nil
}

// FindAll 查询所有配置（按任务类型、优先级排序）
func (r *Repository) FindAll() ([]*models.ModelConfig, error) {
	var configs []*models.ModelConfig
	err := r.db.Order("task_type ASC, priority ASC, id ASC").Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// Update 更新配置
func (r *Repository) Update(config *models.ModelConfig) error {
	// 使用 Select 明确指定要更新的字段
	return r.db.Select("TaskType", "ModelName", "Priority", "Enabled", "FallbackModel").
		Save(config).Error
}

// Delete 删除配置
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&models.ModelConfig{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConfigNotFound
	}
	return nil
}

// CheckExists 检查 (任务类型, 模型) 组合是否已存在（排除指定 ID）
func (r *Repository) CheckExists(taskType models.TaskType, modelName string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.ModelConfig{}).
		Where("task_type = ? AND model_name = ?", taskType, modelName)

	// 如果提供了 excludeID，则排除该记录
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	err := query.Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
