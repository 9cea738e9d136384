package dispatcher

import (
	"time"

	"github.com/edupath/aigen/internal/models"
)

// RetryPolicy 重试策略
// 作为值对象注入分发调用，测试可注入零延迟策略
type RetryPolicy struct {
	MaxAttempts int           `json:"max_attempts"` // 单个候选模型的最大尝试次数（含首次）
	Delay       time.Duration `json:"delay"`        // 固定的重试间隔
}

// PolicySet 按任务类别划分的重试策略
// 内容生成类允许更多重试和更长间隔，评估类要求快速失败
type PolicySet struct {
	Generation RetryPolicy `json:"generation"`
	Evaluation RetryPolicy `json:"evaluation"`
}

// DefaultPolicySet 默认重试策略
func DefaultPolicySet() PolicySet {
	return PolicySet{
		Generation: RetryPolicy{MaxAttempts: 3, Delay: 10 * time.Second},
		Evaluation: RetryPolicy{MaxAttempts: 2, Delay: 5 * time.Second},
	}
}

// ZeroDelayPolicySet 零延迟策略（测试用）
func ZeroDelayPolicySet() PolicySet {
	return PolicySet{
		Generation: RetryPolicy{MaxAttempts: 3, Delay: 0},
		Evaluation: RetryPolicy{MaxAttempts: 2, Delay: 0},
	}
}

// PolicyFor 返回任务类型对应的重试策略
func (p PolicySet) PolicyFor(taskType models.TaskType) RetryPolicy {
	if models.ClassOf(taskType) == models.TaskClassEvaluation {
		return p.Evaluation
	}
	return p.Generation
}
