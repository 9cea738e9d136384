package provider

import (
	"context"
	"errors"
	"fmt"
)

// ==================== 调用契约 ====================

// ExchangeResult 供应商调用结果
type ExchangeResult struct {
	Content    string `json:"content"`     // 生成的内容
	TokensUsed int    `json:"tokens_used"` // 消耗的 token 数
	CostCents  int    `json:"cost_cents"`  // 成本（美分）
	LatencyMs  int    `json:"latency_ms"`  // 本次调用耗时（毫秒）
}

// Params 调用参数（对分发器不透明，原样传递给供应商实现）
type Params map[string]interface{}

// Exchanger 供应商调用契约
// 具体厂商的协议细节由实现方承担，分发器只关心结果与错误分类
type Exchanger interface {
	// Invoke 调用模型生成内容
	// 单次调用的超时由实现方通过 ctx 截止时间强制执行
	Invoke(ctx context.Context, model, prompt string, params Params) (*ExchangeResult, error)
}

// ==================== 错误分类 ====================

// TransientError 瞬时错误（网络、限流、5xx 等）
// 在重试预算内重试，耗尽后切换下一个候选模型
type TransientError struct {
	Reason string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("瞬时错误: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("瞬时错误: %s", e.Reason)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// FatalError 致命错误（参数非法、认证失败等）
// 不重试，立即切换下一个候选模型
type FatalError struct {
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("致命错误: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("致命错误: %s", e.Reason)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewTransientError 创建瞬时错误
func NewTransientError(reason string, err error) *TransientError {
	return &TransientError{Reason: reason, Err: err}
}

// NewFatalError 创建致命错误
func NewFatalError(reason string, err error) *FatalError {
	return &FatalError{Reason: reason, Err: err}
}

// IsTransient 判断是否为瞬时错误
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal 判断是否为致命错误
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// IsDeadline 判断是否为超时错误
// 超时单独分类：终态记为 timeout 而非 failed，便于下游区分慢供应商和坏供应商
func IsDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
