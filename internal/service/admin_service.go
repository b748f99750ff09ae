package service

import (
	"context"
	"errors"
	"fmt"

	"docs-italia-go/internal/metadata"
	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/log"
)

// ErrTagExists 表示要创建的标签已经存在。
var ErrTagExists = errors.New("标签已存在")

// AdminService 承载管理端操作：标签白名单维护和发布者接入。
type AdminService interface {
	ListTags() ([]model.AllowedTag, error)
	CreateTag(name string) (*model.AllowedTag, error)
	UpdateTag(id uint, enabled bool) (*model.AllowedTag, error)
	DeleteTag(id uint) error
	// SeedTags 把内置的标签全集写入数据库，已存在的跳过。
	SeedTags() (int, error)

	// CreatePublisher 接入一个新的发布者，slug 从名称派生。
	CreatePublisher(ctx context.Context, name, configRepoName string) (*model.Publisher, error)
	// ResyncPublisher 手工触发一次与 webhook 等价的全量同步。
	ResyncPublisher(ctx context.Context, slug string) (*WebhookResult, error)
}

type adminService struct {
	tagRepo       repository.AllowedTagRepository
	publisherRepo repository.PublisherRepository
	webhookSvc    WebhookService
	defaultBranch string
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(
	tagRepo repository.AllowedTagRepository,
	publisherRepo repository.PublisherRepository,
	webhookSvc WebhookService,
	defaultBranch string,
) AdminService {
	return &adminService{
		tagRepo:       tagRepo,
		publisherRepo: publisherRepo,
		webhookSvc:    webhookSvc,
		defaultBranch: defaultBranch,
	}
}

func (s *adminService) ListTags() ([]model.AllowedTag, error) {
	return s.tagRepo.FindAll()
}

func (s *adminService) CreateTag(name string) (*model.AllowedTag, error) {
	tag := &model.AllowedTag{Name: name, Enabled: true}
	tag.Normalize()
	if tag.Name == "" {
		return nil, fmt.Errorf("标签名不能为空")
	}

	existing, err := s.tagRepo.FindByName(tag.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTagExists
	}

	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *adminService) UpdateTag(id uint, enabled bool) (*model.AllowedTag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	tag.Enabled = enabled
	if err := s.tagRepo.Update(tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *adminService) DeleteTag(id uint) error {
	if _, err := s.tagRepo.FindByID(id); err != nil {
		return err
	}
	return s.tagRepo.Delete(id)
}

func (s *adminService) SeedTags() (int, error) {
	n, err := s.tagRepo.Seed(model.BaseAllowedTags)
	if err != nil {
		return 0, err
	}
	log.Infof("标签白名单初始化完成，新增 %d 条", n)
	return int(n), nil
}

func (s *adminService) CreatePublisher(ctx context.Context, name, configRepoName string) (*model.Publisher, error) {
	if configRepoName == "" {
		configRepoName = model.DefaultConfigRepoName
	}
	pub := &model.Publisher{
		Name:           name,
		Slug:           metadata.Slugify(name),
		ConfigRepoName: configRepoName,
		Active:         true,
	}
	if pub.Slug == "" {
		return nil, fmt.Errorf("发布者名称 %q 无法派生出合法的 slug", name)
	}

	if err := s.publisherRepo.Create(pub); err != nil {
		return nil, err
	}
	return pub, nil
}

// ResyncPublisher 复用 webhook 的处理流程，等价于默认分支上的一次推送。
func (s *adminService) ResyncPublisher(ctx context.Context, slug string) (*WebhookResult, error) {
	pub, err := s.publisherRepo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.webhookSvc.HandlePush(ctx, pub, "refs/heads/"+s.defaultBranch)
}
