package handlers

import (
	"net/http"

	"github.com/edupath/aigen/internal/cache"
	"github.com/gin-gonic/gin"
)

// CacheHandler 内容缓存 HTTP 处理器
type CacheHandler struct {
	store *cache.Store
}

// NewCacheHandler 创建 CacheHandler 实例
func NewCacheHandler(store *cache.Store) *CacheHandler {
	return &CacheHandler{store: store}
}

// GetStats 查询缓存统计
// @Summary 查询缓存统计
// @Tags cache
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /api/cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// InvalidateKey 删除指定缓存键
// @Summary 删除缓存条目
// @Tags cache
// @Param key path string true "缓存键"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /api/cache/{key} [delete]
func (h *CacheHandler) InvalidateKey(c *gin.Context) {
	key := c.Param("key")

	if err := h.store.Invalidate(key); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
