package models

import "time"

// InteractionStatus 交互记录状态
// 状态机：pending → processing → {completed | failed | timeout}
// 终态之后不允许任何转换
type InteractionStatus string

const (
	StatusPending    InteractionStatus = "pending"    // 已创建，尚未调用
	StatusProcessing InteractionStatus = "processing" // 正在调用供应商
	StatusCompleted  InteractionStatus = "completed"  // 调用成功（终态）
	StatusFailed     InteractionStatus = "failed"     // 调用失败（终态）
	StatusTimeout    InteractionStatus = "timeout"    // 调用超时（终态）
)

// IsTerminal 是否为终态
func (s InteractionStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimeout:
		return true
	default:
		return false
	}
}

// NonTerminalStatuses 非终态集合，用于状态转换的原子更新条件
var NonTerminalStatuses = []InteractionStatus{StatusPending, StatusProcessing}

// Interaction AI 交互记录
// 每次逻辑生成请求一条记录，跨多个候选模型的尝试共用同一条
// 记录成本与延迟，作为审计与成本告警的数据来源
type Interaction struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	RequestID  string            `gorm:"type:varchar(64);index" json:"request_id"`
	TaskType   TaskType          `gorm:"type:varchar(50);not null;index" json:"task_type"`
	Model      string            `gorm:"type:varchar(100);not null" json:"model"` // 实际调用的模型
	Prompt     string            `gorm:"type:text;not null" json:"prompt"`
	Status     InteractionStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	CostCents  int               `gorm:"default:0;not null" json:"cost_cents"`  // 成本（美分）
	LatencyMs  int               `gorm:"default:0;not null" json:"latency_ms"`  // 终态尝试的耗时（毫秒）
	Error      string            `gorm:"type:text" json:"error,omitempty"`      // 终态为失败/超时时的原因
	UserID     *uint             `gorm:"index" json:"user_id,omitempty"`        // 弱引用，用户删除后记录仍然有效
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TableName 指定表名
func (Interaction) TableName() string {
	return "interactions"
}

// CostDollars 成本（美元）
func (i *Interaction) CostDollars() float64 {
	return float64(i.CostCents) / 100.0
}

// LatencySeconds 耗时（秒），未记录时为 0
func (i *Interaction) LatencySeconds() float64 {
	return float64(i.LatencyMs) / 1000.0
}
