package service

import (
	"context"

	"gorm.io/gorm"

	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/log"
	"docs-italia-go/pkg/tasks"
	"docs-italia-go/pkg/token"
)

// TaskEnqueuer 把索引清理任务投递到消息队列，由后台消费者执行。
type TaskEnqueuer interface {
	Enqueue(task tasks.ClearIndexTask) error
}

// CleanupService 负责删除发布者和分组，并清理由此产生的孤儿文档
// 及其搜索索引条目。孤儿文档指不再被任何激活分组关联的文档。
type CleanupService interface {
	DeletePublisherProject(ctx context.Context, projectID uint) error
	DeletePublisher(ctx context.Context, publisherID uint) error
	// CleanIndex 全量扫描一遍文档，把孤儿文档从数据库和索引里清掉。
	CleanIndex(ctx context.Context) (int, error)
}

type cleanupService struct {
	db       *gorm.DB
	enqueuer TaskEnqueuer
}

// NewCleanupService 创建一个新的 CleanupService 实例。
func NewCleanupService(db *gorm.DB, enqueuer TaskEnqueuer) CleanupService {
	return &cleanupService{db: db, enqueuer: enqueuer}
}

// DeletePublisherProject 删除一个分组。分组名下仅被它关联的文档
// 成为孤儿，一并删除并投递索引清理任务；被其他分组关联的文档保留。
func (s *cleanupService) DeletePublisherProject(ctx context.Context, projectID uint) error {
	var orphanIDs []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectRepo := repository.NewPublisherProjectRepository(tx)
		documentRepo := repository.NewDocumentRepository(tx)

		var project model.PublisherProject
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}

		ids, err := deleteProjectTx(projectRepo, documentRepo, &project)
		if err != nil {
			return err
		}
		orphanIDs = ids
		return nil
	})
	if err != nil {
		return err
	}

	s.enqueueClearIndex(orphanIDs)
	return nil
}

// DeletePublisher 删除发布者及其全部分组和远端组织记录，
// 孤儿文档的处理规则与删除单个分组一致。
func (s *cleanupService) DeletePublisher(ctx context.Context, publisherID uint) error {
	var orphanIDs []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		publisherRepo := repository.NewPublisherRepository(tx)
		projectRepo := repository.NewPublisherProjectRepository(tx)
		documentRepo := repository.NewDocumentRepository(tx)

		pub, err := publisherRepo.FindByID(publisherID)
		if err != nil {
			return err
		}

		projects, err := projectRepo.FindByPublisher(pub.ID, false)
		if err != nil {
			return err
		}
		for i := range projects {
			ids, err := deleteProjectTx(projectRepo, documentRepo, &projects[i])
			if err != nil {
				return err
			}
			orphanIDs = append(orphanIDs, ids...)
		}

		if pub.RemoteOrganizationID != nil {
			if err := publisherRepo.DeleteRemoteOrganization(*pub.RemoteOrganizationID); err != nil {
				return err
			}
		}
		return publisherRepo.Delete(pub)
	})
	if err != nil {
		return err
	}

	s.enqueueClearIndex(orphanIDs)
	return nil
}

// deleteProjectTx 删除一个分组并返回由此变成孤儿的文档 ID。
func deleteProjectTx(
	projectRepo repository.PublisherProjectRepository,
	documentRepo repository.DocumentRepository,
	project *model.PublisherProject,
) ([]uint, error) {
	docs, err := projectRepo.FindDocuments(project)
	if err != nil {
		return nil, err
	}

	var orphanIDs []uint
	for i := range docs {
		doc := &docs[i]
		others, err := projectRepo.CountOtherClaims(doc.ID, project.ID)
		if err != nil {
			return nil, err
		}
		if others > 0 {
			continue
		}
		if err := documentRepo.Delete(doc); err != nil {
			return nil, err
		}
		orphanIDs = append(orphanIDs, doc.ID)
	}

	if err := projectRepo.Delete(project); err != nil {
		return nil, err
	}
	return orphanIDs, nil
}

// CleanIndex 全量清理：找出所有不再挂在任何激活分组下的文档，
// 从数据库删除并投递索引清理任务。返回清掉的文档数量。
func (s *cleanupService) CleanIndex(ctx context.Context) (int, error) {
	var orphanIDs []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectRepo := repository.NewPublisherProjectRepository(tx)
		documentRepo := repository.NewDocumentRepository(tx)

		docs, err := documentRepo.FindAllWithProjects()
		if err != nil {
			return err
		}
		for i := range docs {
			doc := &docs[i]
			if !isOrphan(doc) {
				continue
			}
			// 清空所有残留关联后再删，避免外键悬挂。
			for _, pp := range doc.PublisherProjects {
				if err := projectRepo.RemoveDocument(pp, doc); err != nil {
					return err
				}
			}
			if err := documentRepo.Delete(doc); err != nil {
				return err
			}
			orphanIDs = append(orphanIDs, doc.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.enqueueClearIndex(orphanIDs)
	return len(orphanIDs), nil
}

// isOrphan 判断文档是否已经没有任何可用归属：没有关联分组，
// 或所有关联分组都已非激活、或其发布者已非激活。
func isOrphan(doc *model.Document) bool {
	for _, pp := range doc.PublisherProjects {
		if !pp.Active {
			continue
		}
		if pp.Publisher != nil && !pp.Publisher.Active {
			continue
		}
		return false
	}
	return true
}

func (s *cleanupService) enqueueClearIndex(ids []uint) {
	if len(ids) == 0 || s.enqueuer == nil {
		return
	}
	task := tasks.ClearIndexTask{
		TaskID:      token.GenerateRandomString(8),
		DocumentIDs: ids,
	}
	if err := s.enqueuer.Enqueue(task); err != nil {
		// 任务丢失只会让索引里残留旧条目，全量 CleanIndex 可以兜底。
		log.Errorf("投递索引清理任务失败: %v", err)
	}
}
