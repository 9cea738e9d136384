package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edupath/aigen/internal/ledger"
	"github.com/edupath/aigen/internal/models"
	"github.com/gin-gonic/gin"
)

// InteractionHandler 交互记录 HTTP 处理器
// 只读：交互记录仅由分发器写入
type InteractionHandler struct {
	repo *ledger.Repository
}

// NewInteractionHandler 创建 InteractionHandler 实例
func NewInteractionHandler(repo *ledger.Repository) *InteractionHandler {
	return &InteractionHandler{repo: repo}
}

// ListInteractions 查询交互记录列表
// @Summary 查询交互记录
// @Tags interactions
// @Produce json
// @Param status query string false "状态过滤"
// @Param limit query int false "返回数量" default(50)
// @Success 200 {array} models.Interaction
// @Failure 400 {object} ErrorResponse
// @Router /api/interactions [get]
func (h *InteractionHandler) ListInteractions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var interactions []models.Interaction
	var err error

	if status := c.Query("status"); status != "" {
		s := models.InteractionStatus(status)
		switch s {
		case models.StatusPending, models.StatusProcessing,
			models.StatusCompleted, models.StatusFailed, models.StatusTimeout:
			interactions, err = h.repo.ListByStatus(s, limit)
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的状态过滤: " + status})
			return
		}
	} else {
		interactions, err = h.repo.ListRecent(limit)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, interactions)
}

// GetInteraction 根据 ID 获取交互记录
// @Summary 获取单条交互记录
// @Tags interactions
// @Produce json
// @Param id path int true "记录ID"
// @Success 200 {object} models.Interaction
// @Failure 404 {object} ErrorResponse
// @Router /api/interactions/{id} [get]
func (h *InteractionHandler) GetInteraction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的记录 ID"})
		return
	}

	interaction, err := h.repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, ledger.ErrInteractionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interaction":     interaction,
		"cost_dollars":    interaction.CostDollars(),
		"latency_seconds": interaction.LatencySeconds(),
	})
}

// GetCostSummary 查询成本汇总
// @Summary 查询成功请求的总成本
// @Tags interactions
// @Produce json
// @Param task_type query string false "任务类型过滤"
// @Success 200 {object} map[string]interface{}
// @Router /api/interactions/cost [get]
func (h *InteractionHandler) GetCostSummary(c *gin.Context) {
	taskType := models.TaskType(c.Query("task_type"))
	if taskType != "" && !models.IsValidTaskType(taskType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "未知的任务类型: " + string(taskType)})
		return
	}

	totalCents, err := h.repo.TotalCostCents(taskType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task_type":          taskType,
		"total_cost_cents":   totalCents,
		"total_cost_dollars": float64(totalCents) / 100.0,
	})
}
