// Package model 定义了与数据库表对应的 Go 结构体。
package model

import (
	"time"

	"docs-italia-go/internal/metadata"
)

// DefaultConfigRepoName 是存放发布者配置文件的仓库的约定名称。
const DefaultConfigRepoName = "italia-conf"

// Publisher 对应 'publishers' 表，表示一个发布文档的组织。
// 配置文件是数据的唯一可信来源，校验后的解析结果保存在
// Metadata / ProjectsMetadata 两个 JSON 字段里。
type Publisher struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// Name 是发布者的完整名称，取自 publisher_settings.yml 的 name 字段。
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	// Slug 是组织主页 URL 的最后一段，例如 ministero-della-documentazione。
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	// Metadata 保存校验后的 publisher_settings.yml。
	Metadata *metadata.PublisherMetadata `gorm:"type:json;serializer:json" json:"metadata,omitempty"`
	// ProjectsMetadata 保存校验后的 projects_settings.yml。
	ProjectsMetadata *metadata.ProjectsMetadata `gorm:"type:json;serializer:json" json:"projectsMetadata,omitempty"`
	// ConfigRepoName 是存放配置文件的仓库名。
	ConfigRepoName string `gorm:"type:varchar(255);not null;default:italia-conf" json:"configRepoName"`
	// RemoteOrganizationID 弱关联到账号同步子系统里的远程组织记录。
	RemoteOrganizationID *uint               `json:"remoteOrganizationId,omitempty"`
	RemoteOrganization   *RemoteOrganization `gorm:"constraint:OnDelete:SET NULL" json:"remoteOrganization,omitempty"`
	// Active 控制是否为该发布者执行元数据同步与文档导入。
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Publisher) TableName() string {
	return "publishers"
}

// OrgContext 构造校验元数据时使用的组织上下文。
// 优先使用远程组织记录的信息，缺失时按约定从 slug 推导仓库主页地址。
func (p *Publisher) OrgContext(orgBaseURL string) *metadata.OrgContext {
	ctx := &metadata.OrgContext{
		Slug:           p.Slug,
		URL:            orgBaseURL + "/" + p.Slug,
		ConfigRepoName: p.ConfigRepoName,
	}
	if p.RemoteOrganization != nil {
		if p.RemoteOrganization.Slug != "" {
			ctx.Slug = p.RemoteOrganization.Slug
		}
		if p.RemoteOrganization.URL != "" {
			ctx.URL = p.RemoteOrganization.URL
		}
	}
	return ctx
}

// PublisherProject 对应 'publisher_projects' 表，是发布者名下的文档分组，
// 由项目列表元数据在同步时创建和更新。
type PublisherProject struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	PublisherID uint       `gorm:"not null;uniqueIndex:uk_publisher_slug" json:"publisherId"`
	Publisher   *Publisher `json:"publisher,omitempty"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	// Slug 的唯一性只在同一发布者内部生效，不是全局唯一。
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex:uk_publisher_slug" json:"slug"`
	// Metadata 保存项目列表中属于本项目的那个校验后的条目。
	Metadata *metadata.ProjectEntry `gorm:"type:json;serializer:json" json:"metadata,omitempty"`
	Featured bool                   `gorm:"not null;default:false" json:"featured"`
	// Active 在项目从最新的元数据中消失时被置为 false，同步过程从不硬删除。
	Active bool `gorm:"not null;default:false" json:"active"`
	// Documents 是本分组拥有的文档集合，一个文档可以同时属于多个分组。
	Documents []*Document `gorm:"many2many:publisher_project_documents" json:"documents,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (PublisherProject) TableName() string {
	return "publisher_projects"
}

// Description 从元数据中读取项目描述。
func (p *PublisherProject) Description() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Description
}

// ClaimsRepoURL 判断本项目的元数据是否声明了给定的文档仓库地址。
func (p *PublisherProject) ClaimsRepoURL(repoURL string) bool {
	if p.Metadata == nil {
		return false
	}
	for _, doc := range p.Metadata.Documents {
		if doc.RepoURL == repoURL {
			return true
		}
	}
	return false
}
