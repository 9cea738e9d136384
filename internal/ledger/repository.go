package ledger

import (
	"errors"

	"github.com/edupath/aigen/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrInteractionNotFound 交互记录不存在
	ErrInteractionNotFound = errors.New("interaction not found")
	// ErrPromptEmpty 提示词为空
	ErrPromptEmpty = errors.New("提示词不能为空")
	// ErrTerminalState 记录已处于终态，拒绝转换
	ErrTerminalState = errors.New("交互记录已处于终态")
	// ErrModelUnsupported 模型标识符不在支持集合内
	ErrModelUnsupported = errors.New("不支持的模型标识符")
)

// Repository 交互记录数据访问层
// 状态转换全部通过带状态条件的原子 UPDATE 完成：
// 终态记录的任何转换都会因条件不满足而被拒绝，保证状态单调
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建交互记录（初始状态 pending）
func (r *Repository) Create(interaction *models.Interaction) error {
	if interaction.Prompt == "" {
		return ErrPromptEmpty
	}

	interaction.Status = models.StatusPending
	return r.db.Create(interaction).Error
}

// FindByID 根据 ID 查找记录
func (r *Repository) FindByID(id uint) (*models.Interaction, error) {
	var interaction models.Interaction
	err := r.db.First(&interaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, err
	}
	return &interaction, nil
}

// FindByRequestID 根据请求 ID 查找记录
func (r *Repository) FindByRequestID(requestID string) (*models.Interaction, error) {
	var interaction models.Interaction
	err := r.db.Where("request_id = ?", requestID).First(&interaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, err
	}
	return &interaction, nil
}

// MarkProcessing 进入 processing 状态，同时记录本次尝试的模型
// 每个候选模型的每轮尝试前调用，可从 pending 或 processing 再次进入
// 模型标识符与配置侧同样受封闭集合约束，未知标识符在写入前拒绝
func (r *Repository) MarkProcessing(id uint, model string) error {
	if !models.IsSupportedModel(model) {
		return ErrModelUnsupported
	}

	return r.transition(id, map[string]interface{}{
		"status": models.StatusProcessing,
		"model":  model,
	})
}

// MarkCompleted 进入 completed 终态，同时记录成本与耗时
func (r *Repository) MarkCompleted(id uint, costCents, latencyMs int) error {
	return r.transition(id, map[string]interface{}{
		"status":     models.StatusCompleted,
		"cost_cents": costCents,
		"latency_ms": latencyMs,
	})
}

// MarkFailed 进入 failed 终态，记录失败原因
func (r *Repository) MarkFailed(id uint, reason string) error {
	return r.transition(id, map[string]interface{}{
		"status": models.StatusFailed,
		"error":  reason,
	})
}

// MarkTimeout 进入 timeout 终态，记录超时原因
// 与 failed 区分开，便于下游告警区分「慢」和「坏」
func (r *Repository) MarkTimeout(id uint, reason string) error {
	return r.transition(id, map[string]interface{}{
		"status": models.StatusTimeout,
		"error":  reason,
	})
}

// ListByStatus 按状态查询记录
func (r *Repository) ListByStatus(status models.InteractionStatus, limit int) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// ListRecent 查询最近的记录
func (r *Repository) ListRecent(limit int) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := r.db.Order("created_at DESC").Limit(limit).Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// TotalCostCents 统计区间内 completed 记录的总成本（美分）
func (r *Repository) TotalCostCents(taskType models.TaskType) (int64, error) {
	var total int64
	query := r.db.Model(&models.Interaction{}).
		Where("status = ?", models.StatusCompleted)

	if taskType != "" {
		query = query.Where("task_type = ?", taskType)
	}

	err := query.Select("COALESCE(SUM(cost_cents), 0)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// transition 原子状态转换
// WHERE 条件限定当前状态为非终态，更新 0 行说明记录不存在或已终态
func (r *Repository) transition(id uint, updates map[string]interface{}) error {
	result := r.db.Model(&models.Interaction{}).
		Where("id = ? AND status IN ?", id, models.NonTerminalStatuses).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// 区分记录不存在和已终态
		var count int64
		if err := r.db.Model(&models.Interaction{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrInteractionNotFound
		}
		return ErrTerminalState
	}

	return nil
}
