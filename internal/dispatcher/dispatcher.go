package dispatcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edupath/aigen/internal/cache"
	"github.com/edupath/aigen/internal/events"
	"github.com/edupath/aigen/internal/ledger"
	"github.com/edupath/aigen/internal/models"
	"github.com/edupath/aigen/internal/provider"
	"github.com/edupath/aigen/internal/publish"
	"github.com/edupath/aigen/internal/registry"
)

// ==================== 请求与结果 ====================

// Request 一次逻辑生成请求
type Request struct {
	RequestID string          `json:"request_id"`          // 请求标识（入队时生成）
	TaskType  models.TaskType `json:"task_type"`           // 任务类型
	Prompt    string          `json:"prompt"`              // 提示词
	CacheKey  string          `json:"cache_key,omitempty"` // 可选：命中时直接复用内容
	UserID    *uint           `json:"user_id,omitempty"`   // 可选：发起用户的弱引用
	Params    provider.Params `json:"params,omitempty"`    // 透传给供应商的参数
}

// Result 生成结果
// 分发器不向调用方抛出错误，所有结局都体现在 Result 中
type Result struct {
	RequestID     string                   `json:"request_id"`
	InteractionID uint                     `json:"interaction_id,omitempty"` // 缓存命中时为 0
	Status        models.InteractionStatus `json:"status"`
	Content       string                   `json:"content,omitempty"`
	FromCache     bool                     `json:"from_cache"`
	CostCents     int                      `json:"cost_cents"`
	LatencyMs     int                      `json:"latency_ms"`
	Attempts      int                      `json:"attempts"` // 供应商实际调用次数
	Reason        string                   `json:"reason,omitempty"`
}

// Success 是否成功（含缓存命中）
func (r *Result) Success() bool {
	return r.Status == models.StatusCompleted
}

// GenerationEvent 发布到订阅方的事件载荷
type GenerationEvent struct {
	RequestID     string          `json:"request_id"`
	InteractionID uint            `json:"interaction_id,omitempty"`
	TaskType      models.TaskType `json:"task_type"`
	Status        string          `json:"status"`
	Content       string          `json:"content,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// ==================== 分发器 ====================

// Config 分发器配置
type Config struct {
	Policies       PolicySet     // 重试策略
	AttemptTimeout time.Duration // 单次供应商调用的截止时间，0 表示不限制
	CacheTTL       time.Duration // 成功结果写入缓存的 TTL，0 表示永不过期
}

// DefaultConfig 默认分发器配置
func DefaultConfig() Config {
	return Config{
		Policies:       DefaultPolicySet(),
		AttemptTimeout: 120 * time.Second,
		CacheTTL:       24 * time.Hour,
	}
}

// Dispatcher 生成请求分发器
// 串联缓存查询 → 候选解析 → 供应商调用（重试+降级）→ 审计记录 → 缓存回写 → 结果发布
type Dispatcher struct {
	resolver  *registry.Resolver
	cache     *cache.Store
	ledger    *ledger.Repository
	exchanger provider.Exchanger
	publisher publish.Publisher
	events    *events.Service
	config    Config
}

// NewDispatcher 创建分发器
func NewDispatcher(
	resolver *registry.Resolver,
	cacheStore *cache.Store,
	ledgerRepo *ledger.Repository,
	exchanger provider.Exchanger,
	publisher publish.Publisher,
	eventService *events.Service,
	config Config,
) *Dispatcher {
	if config.Policies.Generation.MaxAttempts <= 0 {
		config.Policies = DefaultPolicySet()
	}

	return &Dispatcher{
		resolver:  resolver,
		cache:     cacheStore,
		ledger:    ledgerRepo,
		exchanger: exchanger,
		publisher: publisher,
		events:    eventService,
		config:    config,
	}
}

// candidateOutcome 单个候选模型的局部结局
type candidateOutcome struct {
	timedOut bool   // 最后一次失败是否为超时
	reason   string // 人类可读原因
}

// Generate 执行一次逻辑生成请求
// 缓存命中直接返回，不产生交互记录；其余路径恰好驱动一条交互记录走完生命周期，
// 并在终态时发布恰好一次事件
func (d *Dispatcher) Generate(ctx context.Context, req Request) *Result {
	// 1. 缓存查询：命中则不算一次模型调用
	if req.CacheKey != "" {
		content, hit, err := d.cache.Get(req.CacheKey)
		if err != nil {
			// 缓存不可用降级为未命中，绝不阻断生成路径
			log.Printf("⚠️ 缓存查询失败，按未命中处理: %v", err)
		} else if hit {
			return &Result{
				RequestID: req.RequestID,
				Status:    models.StatusCompleted,
				Content:   content,
				FromCache: true,
			}
		}
	}

	// 2. 创建交互记录（pending）
	interaction := &models.Interaction{
		RequestID: req.RequestID,
		TaskType:  req.TaskType,
		Prompt:    req.Prompt,
		UserID:    req.UserID,
	}
	if err := d.ledger.Create(interaction); err != nil {
		// 创建失败（如空提示词）：没有可流转的记录，直接返回失败
		result := &Result{
			RequestID: req.RequestID,
			Status:    models.StatusFailed,
			Reason:    err.Error(),
		}
		d.publishResult(req, result)
		return result
	}

	// 3. 解析候选模型：配置错误不重试
	candidates, err := d.resolver.ResolveCandidates(req.TaskType)
	if err != nil {
		reason := fmt.Sprintf("候选解析失败: %v", err)
		d.markFailed(interaction.ID, reason)
		result := &Result{
			RequestID:     req.RequestID,
			InteractionID: interaction.ID,
			Status:        models.StatusFailed,
			Reason:        reason,
		}
		d.logFailure(req, reason)
		d.publishResult(req, result)
		return result
	}

	// 4. 按序尝试每个候选模型
	policy := d.config.Policies.PolicyFor(req.TaskType)
	totalAttempts := 0
	costCents := 0
	var lastOutcome candidateOutcome

	for i, candidate := range candidates {
		attempts, outcome, exchangeResult := d.tryCandidate(ctx, interaction.ID, candidate, req, policy)
		totalAttempts += attempts

		if exchangeResult != nil {
			// 4.c 成功：记录成本与耗时，回写缓存，发布结果
			costCents += exchangeResult.CostCents
			d.markCompleted(interaction.ID, costCents, exchangeResult.LatencyMs)

			if req.CacheKey != "" {
				d.writeCache(req, candidate, exchangeResult)
			}

			result := &Result{
				RequestID:     req.RequestID,
				InteractionID: interaction.ID,
				Status:        models.StatusCompleted,
				Content:       exchangeResult.Content,
				CostCents:     costCents,
				LatencyMs:     exchangeResult.LatencyMs,
				Attempts:      totalAttempts,
			}
			d.publishResult(req, result)
			return result
		}

		lastOutcome = outcome

		// 还有候选则降级到下一个
		if i+1 < len(candidates) {
			d.logFailover(req.TaskType, candidate.ModelName, candidates[i+1].ModelName, outcome.reason)
		}
	}

	// 5. 所有候选耗尽：按最后一个候选的失败类别落终态
	status := models.StatusFailed
	if lastOutcome.timedOut {
		status = models.StatusTimeout
		d.markTimeout(interaction.ID, lastOutcome.reason)
	} else {
		d.markFailed(interaction.ID, lastOutcome.reason)
	}

	result := &Result{
		RequestID:     req.RequestID,
		InteractionID: interaction.ID,
		Status:        status,
		CostCents:     costCents,
		Attempts:      totalAttempts,
		Reason:        lastOutcome.reason,
	}
	d.logFailure(req, lastOutcome.reason)
	d.publishResult(req, result)
	return result
}

// tryCandidate 在重试预算内尝试单个候选模型
// 返回 (调用次数, 失败结局, 成功结果)；成功时结局无意义
func (d *Dispatcher) tryCandidate(
	ctx context.Context,
	interactionID uint,
	candidate *registry.Candidate,
	req Request,
	policy RetryPolicy,
) (int, candidateOutcome, *provider.ExchangeResult) {
	attempts := 0
	var outcome candidateOutcome

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		// 每轮尝试前重新进入 processing 并记录本次使用的模型
		if err := d.ledger.MarkProcessing(interactionID, candidate.ModelName); err != nil {
			return attempts, candidateOutcome{reason: fmt.Sprintf("状态转换失败: %v", err)}, nil
		}

		attempts++
		result, err := d.invoke(ctx, candidate.ModelName, req)
		if err == nil {
			return attempts, candidateOutcome{}, result
		}

		switch {
		case provider.IsDeadline(err):
			// 超时：候选内不重试，局部结局记为 timeout
			return attempts, candidateOutcome{
				timedOut: true,
				reason:   fmt.Sprintf("模型 %s 调用超时: %v", candidate.ModelName, err),
			}, nil

		case provider.IsFatal(err):
			// 致命错误：不重试，立即切换下一个候选
			return attempts, candidateOutcome{
				reason: fmt.Sprintf("模型 %s 调用失败: %v", candidate.ModelName, err),
			}, nil

		default:
			// 瞬时错误（或未分类错误按瞬时处理）：预算内重试
			outcome = candidateOutcome{
				reason: fmt.Sprintf("模型 %s 重试耗尽: %v", candidate.ModelName, err),
			}
			if attempt < policy.MaxAttempts {
				if waitErr := d.wait(ctx, policy.Delay); waitErr != nil {
					return attempts, candidateOutcome{
						timedOut: provider.IsDeadline(waitErr),
						reason:   fmt.Sprintf("等待重试时请求中止: %v", waitErr),
					}, nil
				}
			}
		}
	}

	return attempts, outcome, nil
}

// invoke 执行一次带截止时间的供应商调用
func (d *Dispatcher) invoke(ctx context.Context, model string, req Request) (*provider.ExchangeResult, error) {
	attemptCtx := ctx
	if d.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, d.config.AttemptTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := d.exchanger.Invoke(attemptCtx, model, req.Prompt, req.Params)
	if err != nil {
		return nil, err
	}

	// 供应商未上报耗时则使用实测值
	if result.LatencyMs == 0 {
		result.LatencyMs = int(time.Since(start).Milliseconds())
	}

	return result, nil
}

// wait 非阻塞式重试等待：挂起等待间隔，同时响应取消
func (d *Dispatcher) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// writeCache 成功结果回写缓存（尽力而为，失败不影响结果）
func (d *Dispatcher) writeCache(req Request, candidate *registry.Candidate, result *provider.ExchangeResult) {
	metadata := map[string]interface{}{
		"task_type":   string(req.TaskType),
		"model":       candidate.ModelName,
		"tokens_used": result.TokensUsed,
	}

	err := d.cache.Put(req.CacheKey, result.Content, contentTypeFor(req.TaskType), metadata, d.config.CacheTTL)
	if err != nil {
		log.Printf("⚠️ 缓存写入失败，忽略: %v", err)
	}
}

// contentTypeFor 按任务类型推断缓存内容分类
func contentTypeFor(taskType models.TaskType) models.ContentType {
	switch taskType {
	case models.TaskCodeGeneration:
		return models.ContentTypeCode
	case models.TaskVoiceNarration:
		return models.ContentTypeAudio
	case models.TaskImageGeneration, models.TaskQuickImages:
		return models.ContentTypeImage
	default:
		return models.ContentTypeText
	}
}

// topicFor 推导发布主题：订阅方按内容单元订阅，无需轮询
func topicFor(req Request) string {
	if req.CacheKey != "" {
		return fmt.Sprintf("generation.%s.%s", req.TaskType, req.CacheKey)
	}
	return fmt.Sprintf("generation.%s.%s", req.TaskType, req.RequestID)
}

// publishResult 发布终态事件（成功与失败各恰好一次）
func (d *Dispatcher) publishResult(req Request, result *Result) {
	if d.publisher == nil {
		return
	}

	d.publisher.Publish(topicFor(req), GenerationEvent{
		RequestID:     result.RequestID,
		InteractionID: result.InteractionID,
		TaskType:      req.TaskType,
		Status:        string(result.Status),
		Content:       result.Content,
		Reason:        result.Reason,
	})
}

// logFailover 记录降级事件
func (d *Dispatcher) logFailover(taskType models.TaskType, fromModel, toModel, reason string) {
	if d.events == nil {
		return
	}
	if err := d.events.LogFailover(taskType, fromModel, toModel, reason); err != nil {
		log.Printf("⚠️ 记录降级事件失败: %v", err)
	}
}

// logFailure 记录生成失败事件
func (d *Dispatcher) logFailure(req Request, reason string) {
	if d.events == nil {
		return
	}
	err := d.events.LogError(models.EventTypeGenerateFailed,
		fmt.Sprintf("生成请求 %s 失败", req.RequestID),
		map[string]interface{}{
			"request_id": req.RequestID,
			"task_type":  string(req.TaskType),
			"reason":     reason,
		})
	if err != nil {
		log.Printf("⚠️ 记录失败事件失败: %v", err)
	}
}

// markCompleted 终态转换的失败只记录日志，不改变返回结果
func (d *Dispatcher) markCompleted(id uint, costCents, latencyMs int) {
	if err := d.ledger.MarkCompleted(id, costCents, latencyMs); err != nil {
		log.Printf("⚠️ 交互记录 %d 标记完成失败: %v", id, err)
	}
}

func (d *Dispatcher) markFailed(id uint, reason string) {
	if err := d.ledger.MarkFailed(id, reason); err != nil {
		log.Printf("⚠️ 交互记录 %d 标记失败失败: %v", id, err)
	}
}

func (d *Dispatcher) markTimeout(id uint, reason string) {
	if err := d.ledger.MarkTimeout(id, reason); err != nil {
		log.Printf("⚠️ 交互记录 %d 标记超时失败: %v", id, err)
	}
}
