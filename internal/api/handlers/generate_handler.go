package handlers

import (
	"errors"
	"net/http"

	"github.com/edupath/aigen/internal/dispatcher"
	"github.com/edupath/aigen/internal/ledger"
	"github.com/edupath/aigen/internal/models"
	"github.com/edupath/aigen/internal/queue"
	"github.com/edupath/aigen/internal/stats"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateHandler 生成请求 HTTP 处理器
// 请求提交后立即返回，实际生成在后台队列执行，结果通过发布事件或状态查询获取
type GenerateHandler struct {
	enqueuer   queue.Enqueuer
	ledgerRepo *ledger.Repository
	collector  *stats.Collector
}

// NewGenerateHandler 创建 GenerateHandler 实例
func NewGenerateHandler(enqueuer queue.Enqueuer, ledgerRepo *ledger.Repository, collector *stats.Collector) *GenerateHandler {
	return &GenerateHandler{
		enqueuer:   enqueuer,
		ledgerRepo: ledgerRepo,
		collector:  collector,
	}
}

// GenerateRequest 提交生成请求
type GenerateRequest struct {
	TaskType string                 `json:"task_type" binding:"required,max=50"`
	Prompt   string                 `json:"prompt" binding:"required"`
	CacheKey string                 `json:"cache_key" binding:"omitempty,max=255"`
	UserID   *uint                  `json:"user_id"`
	Params   map[string]interface{} `json:"params"`
}

// GenerateResponse 提交生成请求的响应
type GenerateResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// SubmitGenerate 提交生成请求
// @Summary 提交生成请求（异步）
// @Tags generate
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "生成请求"
// @Success 202 {object} GenerateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /v1/generate [post]
func (h *GenerateHandler) SubmitGenerate(c *gin.Context) {
	var req GenerateRequest

	// 绑定请求体
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "参数验证失败: " + err.Error(),
		})
		return
	}

	// 任务类型必须在封闭集合内，提交阶段即拒绝
	taskType := models.TaskType(req.TaskType)
	if !models.IsValidTaskType(taskType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "未知的任务类型: " + req.TaskType,
		})
		return
	}

	requestID := uuid.NewString()

	err := h.enqueuer.Enqueue(dispatcher.Request{
		RequestID: requestID,
		TaskType:  taskType,
		Prompt:    req.Prompt,
		CacheKey:  req.CacheKey,
		UserID:    req.UserID,
		Params:    req.Params,
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	if h.collector != nil {
		h.collector.RecordSubmitted(taskType)
	}

	c.JSON(http.StatusAccepted, GenerateResponse{
		RequestID: requestID,
		Status:    "queued",
	})
}

// GetGenerateStatus 按请求 ID 查询生成状态
// @Summary 查询生成请求状态
// @Tags generate
// @Produce json
// @Param request_id path string true "请求 ID"
// @Success 200 {object} models.Interaction
// @Failure 404 {object} ErrorResponse
// @Router /v1/generate/{request_id} [get]
func (h *GenerateHandler) GetGenerateStatus(c *gin.Context) {
	requestID := c.Param("request_id")

	interaction, err := h.ledgerRepo.FindByRequestID(requestID)
	if err != nil {
		if errors.Is(err, ledger.ErrInteractionNotFound) {
			// 缓存命中或尚未出队的请求没有交互记录
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "未找到该请求的交互记录",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id":      interaction.RequestID,
		"interaction_id":  interaction.ID,
		"task_type":       interaction.TaskType,
		"model":           interaction.Model,
		"status":          interaction.Status,
		"cost_dollars":    interaction.CostDollars(),
		"latency_seconds": interaction.LatencySeconds(),
		"error":           interaction.Error,
	})
}
