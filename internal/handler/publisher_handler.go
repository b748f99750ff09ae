package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"docs-italia-go/internal/service"
	"docs-italia-go/pkg/log"
)

// PublisherHandler 提供发布者和分组的只读查询接口。
type PublisherHandler struct {
	publisherService service.PublisherService
}

// NewPublisherHandler 创建一个新的 PublisherHandler 实例。
func NewPublisherHandler(publisherService service.PublisherService) *PublisherHandler {
	return &PublisherHandler{publisherService: publisherService}
}

// ListPublishers 处理 GET /api/v1/publishers。
func (h *PublisherHandler) ListPublishers(c *gin.Context) {
	publishers, err := h.publisherService.ListPublishers()
	if err != nil {
		log.Errorf("[PublisherHandler] 检索发布者列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": publishers, "message": "success"})
}

// GetPublisher 处理 GET /api/v1/publishers/:slug。
func (h *PublisherHandler) GetPublisher(c *gin.Context) {
	pub, err := h.publisherService.GetPublisher(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "发布者不存在"})
			return
		}
		log.Errorf("[PublisherHandler] 检索发布者失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": pub, "message": "success"})
}

// ListProjects 处理 GET /api/v1/publishers/:slug/projects。
func (h *PublisherHandler) ListProjects(c *gin.Context) {
	projects, err := h.publisherService.ListProjects(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "发布者不存在"})
			return
		}
		log.Errorf("[PublisherHandler] 检索分组列表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": projects, "message": "success"})
}

// ListProjectDocuments 处理 GET /api/v1/publishers/:slug/projects/:projectSlug/documents。
func (h *PublisherHandler) ListProjectDocuments(c *gin.Context) {
	docs, err := h.publisherService.ListProjectDocuments(c.Param("slug"), c.Param("projectSlug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "发布者或分组不存在"})
			return
		}
		log.Errorf("[PublisherHandler] 检索分组文档失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": docs, "message": "success"})
}
