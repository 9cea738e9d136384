package provider

import (
	"context"
	"fmt"
	"time"
)

// StubExchanger 本地调试用的桩实现
// 不访问任何外部服务，返回固定格式的内容和可预测的成本
type StubExchanger struct {
	Delay time.Duration // 模拟调用耗时
}

// Invoke 返回桩内容
func (s *StubExchanger) Invoke(ctx context.Context, model, prompt string, params Params) (*ExchangeResult, error) {
	start := time.Now()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &ExchangeResult{
		Content:    fmt.Sprintf("[stub:%s] %s", model, prompt),
		TokensUsed: len(prompt),
		CostCents:  1,
		LatencyMs:  int(time.Since(start).Milliseconds()),
	}, nil
}
