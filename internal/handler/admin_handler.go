package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"docs-italia-go/internal/service"
	"docs-italia-go/pkg/log"
)

// AdminHandler 承载管理端接口：标签白名单维护、发布者接入与清理。
type AdminHandler struct {
	adminService   service.AdminService
	cleanupService service.CleanupService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService, cleanupService service.CleanupService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		cleanupService: cleanupService,
	}
}

// ListTags 处理 GET /api/v1/admin/tags。
func (h *AdminHandler) ListTags(c *gin.Context) {
	tags, err := h.adminService.ListTags()
	if err != nil {
		log.Errorf("[AdminHandler] 检索标签列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": tags, "message": "success"})
}

// tagRequest 是创建标签接口的请求体。
type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTag 处理 POST /api/v1/admin/tags。
func (h *AdminHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	tag, err := h.adminService.CreateTag(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTagExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("[AdminHandler] 创建标签失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": tag, "message": "success"})
}

// updateTagRequest 是更新标签接口的请求体。
type updateTagRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// UpdateTag 处理 PUT /api/v1/admin/tags/:id。
func (h *AdminHandler) UpdateTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的标签 ID"})
		return
	}

	var req updateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	tag, err := h.adminService.UpdateTag(uint(id), *req.Enabled)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "标签不存在"})
			return
		}
		log.Errorf("[AdminHandler] 更新标签失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": tag, "message": "success"})
}

// DeleteTag 处理 DELETE /api/v1/admin/tags/:id。
func (h *AdminHandler) DeleteTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的标签 ID"})
		return
	}

	if err := h.adminService.DeleteTag(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "标签不存在"})
			return
		}
		log.Errorf("[AdminHandler] 删除标签失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success"})
}

// SeedTags 处理 POST /api/v1/admin/tags/seed。
func (h *AdminHandler) SeedTags(c *gin.Context) {
	n, err := h.adminService.SeedTags()
	if err != nil {
		log.Errorf("[AdminHandler] 初始化标签白名单失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"created": n}, "message": "success"})
}

// publisherRequest 是接入发布者接口的请求体。
type publisherRequest struct {
	Name           string `json:"name" binding:"required"`
	ConfigRepoName string `json:"configRepoName"`
}

// CreatePublisher 处理 POST /api/v1/admin/publishers。
func (h *AdminHandler) CreatePublisher(c *gin.Context) {
	var req publisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	pub, err := h.adminService.CreatePublisher(c.Request.Context(), req.Name, req.ConfigRepoName)
	if err != nil {
		log.Errorf("[AdminHandler] 接入发布者失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": pub, "message": "success"})
}

// ResyncPublisher 处理 POST /api/v1/admin/publishers/:slug/resync。
// 等价于配置仓库默认分支上的一次 push 回调。
func (h *AdminHandler) ResyncPublisher(c *gin.Context) {
	result, err := h.adminService.ResyncPublisher(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "发布者不存在"})
			return
		}
		log.Errorf("[AdminHandler] 手工同步发布者失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "同步失败"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeletePublisher 处理 DELETE /api/v1/admin/publishers/:id。
func (h *AdminHandler) DeletePublisher(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的发布者 ID"})
		return
	}

	if err := h.cleanupService.DeletePublisher(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "发布者不存在"})
			return
		}
		log.Errorf("[AdminHandler] 删除发布者失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success"})
}

// DeleteProject 处理 DELETE /api/v1/admin/projects/:id。
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的分组 ID"})
		return
	}

	if err := h.cleanupService.DeletePublisherProject(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "分组不存在"})
			return
		}
		log.Errorf("[AdminHandler] 删除分组失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success"})
}

// CleanIndex 处理 POST /api/v1/admin/clean-index，触发一次全量孤儿清理。
func (h *AdminHandler) CleanIndex(c *gin.Context) {
	n, err := h.cleanupService.CleanIndex(c.Request.Context())
	if err != nil {
		log.Errorf("[AdminHandler] 全量索引清理失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"removed": n}, "message": "success"})
}
