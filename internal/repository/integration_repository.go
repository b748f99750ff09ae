// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"errors"

	"docs-italia-go/internal/model"

	"gorm.io/gorm"
)

// IntegrationRepository 接口定义了 webhook 集成记录的数据操作方法。
type IntegrationRepository interface {
	GetOrCreate(publisherID uint, integrationType string) (*model.PublisherIntegration, error)
	FindByIDAndPublisherSlug(id uint, publisherSlug string) (*model.PublisherIntegration, error)
}

type integrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository 创建一个新的 IntegrationRepository 实例。
func NewIntegrationRepository(db *gorm.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

// GetOrCreate 查找发布者的集成记录，不存在时创建。
// 为了兼容在平台侧手工配置的旧 webhook，找不到记录不视为错误。
func (r *integrationRepository) GetOrCreate(publisherID uint, integrationType string) (*model.PublisherIntegration, error) {
	var integration model.PublisherIntegration
	err := r.db.Where("publisher_id = ? AND integration_type = ?", publisherID, integrationType).
		First(&integration).Error
	if err == nil {
		return &integration, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	integration = model.PublisherIntegration{
		PublisherID:     publisherID,
		IntegrationType: integrationType,
	}
	if err := r.db.Create(&integration).Error; err != nil {
		return nil, err
	}
	return &integration, nil
}

// FindByIDAndPublisherSlug 按主键和发布者 slug 查找集成记录。
func (r *integrationRepository) FindByIDAndPublisherSlug(id uint, publisherSlug string) (*model.PublisherIntegration, error) {
	var integration model.PublisherIntegration
	err := r.db.
		Joins("JOIN publishers ON publishers.id = publisher_integrations.publisher_id").
		Where("publisher_integrations.id = ? AND publishers.slug = ?", id, publisherSlug).
		First(&integration).Error
	if err != nil {
		return nil, err
	}
	return &integration, nil
}
