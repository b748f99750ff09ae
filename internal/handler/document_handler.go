package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docs-italia-go/internal/service"
	"docs-italia-go/pkg/log"
)

// DocumentHandler 提供文档查询和导入接口。
type DocumentHandler struct {
	publisherService service.PublisherService
	binderService    service.BinderService
}

// NewDocumentHandler 创建一个新的 DocumentHandler 实例。
func NewDocumentHandler(publisherService service.PublisherService, binderService service.BinderService) *DocumentHandler {
	return &DocumentHandler{
		publisherService: publisherService,
		binderService:    binderService,
	}
}

// SearchByTag 处理 GET /api/v1/documents/by-tag?tags=a,b。
// 只返回仍挂在激活分组下的文档。
func (h *DocumentHandler) SearchByTag(c *gin.Context) {
	raw := c.Query("tags")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tags 参数不能为空"})
		return
	}

	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	docs, err := h.publisherService.SearchDocumentsByTag(tags)
	if err != nil {
		log.Errorf("[DocumentHandler] 按标签检索文档失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "搜索失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": docs, "message": "success"})
}

// importRequest 是文档导入接口的请求体。
type importRequest struct {
	RepoURL string `json:"repoUrl" binding:"required"`
}

// Import 处理 POST /api/v1/admin/documents/import。
// 构建系统在文档仓库首次构建成功后调用，触发归属绑定。
func (h *DocumentHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}

	doc, err := h.binderService.ImportDocument(c.Request.Context(), req.RepoURL)
	if err != nil {
		log.Errorf("[DocumentHandler] 导入文档失败, repoUrl: %s, error: %v", req.RepoURL, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": doc, "message": "success"})
}
