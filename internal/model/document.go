// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// DefaultLanguage 是文档元数据缺少 language 字段时的默认语言。
const DefaultLanguage = "it"

// Document 对应 'documents' 表，是底层的可发布单元。
// 记录由外部的导入流程创建，本服务只会更新它：文档绑定器用
// document_settings.yml 里的内容覆盖展示字段。
type Document struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Language    string `gorm:"type:varchar(8);not null;default:it" json:"language"`
	// RepoURL 是文档源仓库的地址，也是把文档归入项目分组时使用的连接键。
	RepoURL string `gorm:"type:varchar(255);not null;uniqueIndex" json:"repoUrl"`
	// Tags 保存通过白名单过滤后的标签。
	Tags []string `gorm:"type:json;serializer:json" json:"tags"`
	// PublisherProjects 是声明了本文档的分组，多对多。
	PublisherProjects []*PublisherProject `gorm:"many2many:publisher_project_documents" json:"-"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Document) TableName() string {
	return "documents"
}

// HasAnyTag 判断文档是否带有给定标签中的至少一个。
func (d *Document) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range d.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
