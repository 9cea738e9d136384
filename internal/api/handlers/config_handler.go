package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edupath/aigen/internal/registry"
	"github.com/gin-gonic/gin"
)

// ConfigHandler 模型配置 HTTP 处理器
type ConfigHandler struct {
	service *registry.Service
}

// NewConfigHandler 创建 ConfigHandler 实例
func NewConfigHandler(service *registry.Service) *ConfigHandler {
	return &ConfigHandler{service: service}
}

// ErrorResponse 错误响应格式
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateConfig 创建模型配置
// @Summary 创建模型配置
// @Tags model-configs
// @Accept json
// @Produce json
// @Param config body registry.CreateConfigRequest true "配置信息"
// @Success 201 {object} registry.ConfigResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/model-configs [post]
func (h *ConfigHandler) CreateConfig(c *gin.Context) {
	var req registry.CreateConfigRequest

	// 绑定请求体
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "参数验证失败: " + err.Error(),
		})
		return
	}

	// 调用 Service 创建配置
	config, err := h.service.CreateConfig(req)
	if err != nil {
		c.JSON(h.getErrorStatus(err), ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, config)
}

// ListConfigs 查询模型配置列表
// @Summary 查询模型配置列表
// @Tags model-configs
// @Produce json
// @Param task_type query string false "任务类型过滤"
// @Success 200 {object} registry.ListConfigsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/model-configs [get]
func (h *ConfigHandler) ListConfigs(c *gin.Context) {
	taskType := c.Query("task_type")

	response, err := h.service.ListConfigs(taskType)
	if err != nil {
		c.JSON(h.getErrorStatus(err), ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetConfig 根据 ID 获取配置
// @Summary 获取单个模型配置
// @Tags model-configs
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} registry.ConfigResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/model-configs/{id} [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的配置 ID"})
		return
	}

	config, err := h.service.GetConfig(id)
	if err != nil {
		c.JSON(h.getErrorStatus(err), ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, config)
}

// UpdateConfig 更新配置
// @Summary 更新模型配置
// @Tags model-configs
// @Accept json
// @Produce json
// @Param id path int true "配置ID"
// @Param config body registry.UpdateConfigRequest true "更新内容"
// @Success 200 {object} registry.ConfigResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/model-configs/{id} [put]
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的配置 ID"})
		return
	}

	var req registry.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "参数验证失败: " + err.Error(),
		})
		return
	}

	config, err := h.service.UpdateConfig(id, req)
	if err != nil {
		c.JSON(h.getErrorStatus(err), ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, config)
}

// DeleteConfig 删除配置
// @Summary 删除模型配置
// @Tags model-configs
// @Param id path int true "配置ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/model-configs/{id} [delete]
func (h *ConfigHandler) DeleteConfig(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "无效的配置 ID"})
		return
	}

	if err := h.service.DeleteConfig(id); err != nil {
		c.JSON(h.getErrorStatus(err), ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseID 解析路径中的配置 ID
func (h *ConfigHandler) parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// getErrorStatus 错误到 HTTP 状态码的映射
func (h *ConfigHandler) getErrorStatus(err error) int {
	switch {
	case errors.Is(err, registry.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrConfigExists):
		return http.StatusConflict
	case errors.Is(err, registry.ErrInvalidTaskType),
		errors.Is(err, registry.ErrUnsupportedModel),
		errors.Is(err, registry.ErrUnsupportedFallback),
		errors.Is(err, registry.ErrFallbackSelfReference),
		errors.Is(err, registry.ErrNegativePriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
