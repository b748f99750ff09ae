// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// RemoteOrganization 对应 'remote_organizations' 表，
// 是账号同步子系统里托管平台组织的本地映射。
type RemoteOrganization struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Slug  string `gorm:"type:varchar(255);not null" json:"slug"`
	Name  string `gorm:"type:varchar(255)" json:"name"`
	URL   string `gorm:"type:varchar(255)" json:"url"`
	Email string `gorm:"type:varchar(255)" json:"email"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (RemoteOrganization) TableName() string {
	return "remote_organizations"
}

// GithubWebhook 是目前唯一支持的入站 webhook 集成类型。
const GithubWebhook = "github_webhook"

// PublisherIntegration 对应 'publisher_integrations' 表，
// 记录发布者的入站 webhook 集成。
type PublisherIntegration struct {
	ID              uint                   `gorm:"primaryKey;autoIncrement" json:"id"`
	PublisherID     uint                   `gorm:"not null" json:"publisherId"`
	Publisher       *Publisher             `json:"publisher,omitempty"`
	IntegrationType string                 `gorm:"type:varchar(32);not null" json:"integrationType"`
	ProviderData    map[string]interface{} `gorm:"type:json;serializer:json" json:"providerData,omitempty"`
	CreatedAt       time.Time              `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (PublisherIntegration) TableName() string {
	return "publisher_integrations"
}
