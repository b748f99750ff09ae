package service

import (
	"context"

	"gorm.io/gorm"

	"docs-italia-go/internal/metadata"
	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/lock"
	"docs-italia-go/pkg/log"
)

// ReconcileService 把校验后的项目元数据同步到数据库中的项目记录。
type ReconcileService interface {
	// Reconcile 以元数据为准对发布者名下的项目做增量同步：
	// 新项目创建，已有项目更新，元数据里消失的项目置为非激活（从不删除）。
	// 已绑定的文档会跟随 repo_url 迁移到新的归属项目。
	Reconcile(ctx context.Context, pub *model.Publisher, meta *metadata.ProjectsMetadata) error
}

type reconcileService struct {
	db     *gorm.DB
	locker lock.PublisherLocker
}

// NewReconcileService 创建一个新的 ReconcileService 实例。
func NewReconcileService(db *gorm.DB, locker lock.PublisherLocker) ReconcileService {
	return &reconcileService{db: db, locker: locker}
}

func (s *reconcileService) Reconcile(ctx context.Context, pub *model.Publisher, meta *metadata.ProjectsMetadata) error {
	// 同一发布者的同步串行化，避免并发 webhook 互相覆盖。
	return s.locker.WithLock(ctx, pub.Slug, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.reconcileTx(tx, pub, meta)
		})
	})
}

func (s *reconcileService) reconcileTx(tx *gorm.DB, pub *model.Publisher, meta *metadata.ProjectsMetadata) error {
	projectRepo := repository.NewPublisherProjectRepository(tx)
	documentRepo := repository.NewDocumentRepository(tx)

	kept := make(map[string]struct{}, len(meta.Projects))
	// targets 记录每个文档仓库地址最终应该归属的项目。
	// 同一地址被多个项目声明时后写者生效。
	targets := make(map[string]*model.PublisherProject)

	for i := range meta.Projects {
		entry := meta.Projects[i]
		kept[entry.Slug] = struct{}{}

		project, err := projectRepo.FindByPublisherAndSlug(pub.ID, entry.Slug)
		if err != nil {
			return err
		}
		if project == nil {
			project = &model.PublisherProject{
				PublisherID: pub.ID,
				Slug:        entry.Slug,
			}
		}
		project.Name = entry.Name
		project.Metadata = &entry
		project.Active = true
		if err := projectRepo.Save(project); err != nil {
			return err
		}

		for _, doc := range entry.Documents {
			targets[doc.RepoURL] = project
		}
	}

	// 元数据里不再出现的项目置为非激活，绑定关系保留。
	existing, err := projectRepo.FindByPublisher(pub.ID, false)
	if err != nil {
		return err
	}
	deactivated := make(map[uint]struct{})
	for i := range existing {
		project := &existing[i]
		if _, ok := kept[project.Slug]; ok {
			continue
		}
		if !project.Active {
			continue
		}
		project.Active = false
		if err := projectRepo.Save(project); err != nil {
			return err
		}
		deactivated[project.ID] = struct{}{}
		log.Infow("项目已置为非激活", "publisher", pub.Slug, "project", project.Slug)
	}

	return s.moveBoundDocuments(projectRepo, documentRepo, targets, deactivated)
}

// moveBoundDocuments 把已经绑定过的文档迁移到元数据声明的新归属项目。
// 只解除本轮刚置为非激活的项目上的绑定：文档可以同时属于多个项目，
// 其他项目（包括其他发布者的项目）的绑定不受影响。
// 从未绑定过的文档这里不处理，由导入时的绑定流程接管。
func (s *reconcileService) moveBoundDocuments(
	projectRepo repository.PublisherProjectRepository,
	documentRepo repository.DocumentRepository,
	targets map[string]*model.PublisherProject,
	deactivated map[uint]struct{},
) error {
	for repoURL, target := range targets {
		doc, err := documentRepo.FindByRepoURL(repoURL)
		if err != nil {
			return err
		}
		if doc == nil {
			continue
		}

		linked, err := projectRepo.FindLinkedProjects(doc.ID)
		if err != nil {
			return err
		}
		if len(linked) == 0 {
			continue
		}

		alreadyBound := false
		for i := range linked {
			if linked[i].ID == target.ID {
				alreadyBound = true
				continue
			}
			if _, ok := deactivated[linked[i].ID]; !ok {
				continue
			}
			if err := projectRepo.RemoveDocument(&linked[i], doc); err != nil {
				return err
			}
			log.Infow("文档绑定迁出", "document", doc.Slug, "from", linked[i].Slug, "to", target.Slug)
		}
		if !alreadyBound {
			if err := projectRepo.AddDocument(target, doc); err != nil {
				return err
			}
		}
	}
	return nil
}
