package handlers

import (
	"net/http"
	"strconv"

	"github.com/edupath/aigen/internal/events"
	"github.com/edupath/aigen/internal/stats"
	"github.com/gin-gonic/gin"
)

// StatsHandler 统计与事件 HTTP 处理器
type StatsHandler struct {
	collector    *stats.Collector
	eventService *events.Service
}

// NewStatsHandler 创建 StatsHandler 实例
func NewStatsHandler(collector *stats.Collector, eventService *events.Service) *StatsHandler {
	return &StatsHandler{
		collector:    collector,
		eventService: eventService,
	}
}

// GetStats 查询请求统计
// @Summary 查询请求统计快照
// @Tags stats
// @Produce json
// @Success 200 {object} stats.Snapshot
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.collector.GetSnapshot())
}

// ListEvents 查询系统事件
// @Summary 查询系统事件
// @Tags events
// @Produce json
// @Param type query string false "事件类型过滤"
// @Param limit query int false "返回数量" default(50)
// @Success 200 {array} models.SystemEvent
// @Router /api/events [get]
func (h *StatsHandler) ListEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var result interface{}
	var err error

	if eventType := c.Query("type"); eventType != "" {
		result, err = h.eventService.GetEventsByType(eventType, limit)
	} else {
		result, err = h.eventService.GetRecentEvents(limit)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
