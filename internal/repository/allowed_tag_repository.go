// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"errors"

	"docs-italia-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllowedTagRepository 接口定义了标签白名单的数据操作方法。
type AllowedTagRepository interface {
	Create(tag *model.AllowedTag) error
	FindAll() ([]model.AllowedTag, error)
	FindByID(id uint) (*model.AllowedTag, error)
	FindByName(name string) (*model.AllowedTag, error)
	EnabledNames() (map[string]struct{}, error)
	Update(tag *model.AllowedTag) error
	Delete(id uint) error
	Seed(names []string) (int64, error)
}

type allowedTagRepository struct {
	db *gorm.DB
}

// NewAllowedTagRepository 创建一个新的 AllowedTagRepository 实例。
func NewAllowedTagRepository(db *gorm.DB) AllowedTagRepository {
	return &allowedTagRepository{db: db}
}

// Create 在数据库中插入一个新的白名单标签，名称先归一化。
func (r *allowedTagRepository) Create(tag *model.AllowedTag) error {
	tag.Normalize()
	return r.db.Create(tag).Error
}

// FindAll 按名称排序检索所有白名单标签。
func (r *allowedTagRepository) FindAll() ([]model.AllowedTag, error) {
	var tags []model.AllowedTag
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}

// FindByID 根据主键查找白名单标签。
func (r *allowedTagRepository) FindByID(id uint) (*model.AllowedTag, error) {
	var tag model.AllowedTag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByName 按归一化后的名称查找标签。
func (r *allowedTagRepository) FindByName(name string) (*model.AllowedTag, error) {
	lookup := model.AllowedTag{Name: name}
	lookup.Normalize()

	var tag model.AllowedTag
	if err := r.db.Where("name = ?", lookup.Name).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// EnabledNames 返回所有启用标签的名称集合，供文档校验求交集。
func (r *allowedTagRepository) EnabledNames() (map[string]struct{}, error) {
	var names []string
	err := r.db.Model(&model.AllowedTag{}).Where("enabled = ?", true).Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set, nil
}

// Update 更新数据库中一个已存在的白名单标签。
func (r *allowedTagRepository) Update(tag *model.AllowedTag) error {
	tag.Normalize()
	return r.db.Save(tag).Error
}

// Delete 根据主键删除一个白名单标签。
func (r *allowedTagRepository) Delete(id uint) error {
	return r.db.Delete(&model.AllowedTag{}, id).Error
}

// Seed 批量导入基础标签，已存在的名称跳过，返回实际新增的条数。
func (r *allowedTagRepository) Seed(names []string) (int64, error) {
	tags := make([]model.AllowedTag, 0, len(names))
	for _, name := range names {
		tag := model.AllowedTag{Name: name, Enabled: true}
		tag.Normalize()
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	return result.RowsAffected, result.Error
}
