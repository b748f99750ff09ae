// Package handler 包含了所有 Gin 的 HTTP 处理器。
package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/internal/service"
	"docs-italia-go/pkg/lock"
	"docs-italia-go/pkg/log"
)

// WebhookHandler 接收托管平台发来的 push 回调。
type WebhookHandler struct {
	webhookService  service.WebhookService
	publisherRepo   repository.PublisherRepository
	integrationRepo repository.IntegrationRepository
}

// NewWebhookHandler 创建一个新的 WebhookHandler 实例。
func NewWebhookHandler(
	webhookService service.WebhookService,
	publisherRepo repository.PublisherRepository,
	integrationRepo repository.IntegrationRepository,
) *WebhookHandler {
	return &WebhookHandler{
		webhookService:  webhookService,
		publisherRepo:   publisherRepo,
		integrationRepo: integrationRepo,
	}
}

// pushPayload 是 GitHub push 事件载荷里我们关心的部分。
type pushPayload struct {
	Ref string `json:"ref"`
}

// HandleGithubPush 处理 POST /api/v1/webhook/github/:publisherSlug。
// 发布者的 github 集成记录不存在时自动创建，兼容平台侧手工配置的旧 webhook。
func (h *WebhookHandler) HandleGithubPush(c *gin.Context) {
	pub, ok := h.findPublisher(c, c.Param("publisherSlug"))
	if !ok {
		return
	}

	integration, err := h.integrationRepo.GetOrCreate(pub.ID, model.GithubWebhook)
	if err != nil {
		log.Errorf("[WebhookHandler] 获取集成记录失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}

	h.serve(c, pub, integration)
}

// HandlePush 处理 POST /api/v1/webhook/:publisherSlug/:integrationID，
// 按集成记录的主键分发。
func (h *WebhookHandler) HandlePush(c *gin.Context) {
	publisherSlug := c.Param("publisherSlug")
	integrationID, err := strconv.ParseUint(c.Param("integrationID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的集成 ID"})
		return
	}

	integration, err := h.integrationRepo.FindByIDAndPublisherSlug(uint(integrationID), publisherSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "集成不存在"})
			return
		}
		log.Errorf("[WebhookHandler] 查找集成记录失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return
	}

	pub, ok := h.findPublisher(c, publisherSlug)
	if !ok {
		return
	}

	h.serve(c, pub, integration)
}

func (h *WebhookHandler) findPublisher(c *gin.Context, slug string) (*model.Publisher, bool) {
	pub, err := h.publisherRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "发布者不存在"})
			return nil, false
		}
		log.Errorf("[WebhookHandler] 查找发布者失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部错误"})
		return nil, false
	}
	return pub, true
}

// serve 校验签名和事件类型后把 push 事件交给服务层。
func (h *WebhookHandler) serve(c *gin.Context, pub *model.Publisher, integration *model.PublisherIntegration) {
	// 只处理 push 事件，其他事件直接确认
	if event := c.GetHeader("X-GitHub-Event"); event != "" && event != "push" {
		c.JSON(http.StatusOK, gin.H{"detail": "Unhandled webhook event"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取请求体"})
		return
	}

	if !verifySignature(integration.ProviderData, body, c.GetHeader("X-Hub-Signature-256")) {
		log.Warnf("[WebhookHandler] 发布者 %s 的 webhook 签名校验失败", pub.Slug)
		c.JSON(http.StatusBadRequest, gin.H{"error": "签名校验失败"})
		return
	}

	// 停用的发布者不同步，回调照常确认
	if !pub.Active {
		log.Infow("发布者已停用，推送被忽略", "publisher", pub.Slug)
		c.JSON(http.StatusOK, &service.WebhookResult{
			BuildTriggered: false,
			Publisher:      pub.Slug,
			Versions:       []string{},
		})
		return
	}

	var payload pushPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 JSON 载荷"})
		return
	}

	result, err := h.webhookService.HandlePush(c.Request.Context(), pub, payload.Ref)
	if err != nil {
		if errors.Is(err, service.ErrRefRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// 同一发布者的另一次同步正在执行，让平台侧稍后重投
		if errors.Is(err, lock.ErrLockHeld) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("[WebhookHandler] 处理 push 事件失败, publisher: %s, error: %v", pub.Slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "同步失败"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// verifySignature 按 GitHub 的约定校验 HMAC-SHA256 签名。
// 集成没有配置密钥时跳过校验，兼容平台侧手工创建的旧 webhook。
func verifySignature(providerData map[string]interface{}, body []byte, header string) bool {
	secret, _ := providerData["secret"].(string)
	if secret == "" {
		return true
	}
	if header == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(header))
}
