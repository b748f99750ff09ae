// Package pipeline 定义了后台任务的处理流程。
package pipeline

import (
	"context"

	"docs-italia-go/internal/config"
	"docs-italia-go/pkg/es"
	"docs-italia-go/pkg/log"
	"docs-italia-go/pkg/tasks"
)

// Processor 消费索引清理任务，把孤儿文档的条目和页面从
// Elasticsearch 里删掉。数据库记录已经在投递任务前删除。
type Processor struct {
	esCfg config.ElasticsearchConfig
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(esCfg config.ElasticsearchConfig) *Processor {
	return &Processor{esCfg: esCfg}
}

// Process 执行一个索引清理任务。单个文档的清理失败不会中断
// 其余文档，但会让任务整体报错以便消费者重试。
func (p *Processor) Process(ctx context.Context, task tasks.ClearIndexTask) error {
	log.Infof("[Processor] 开始清理索引, TaskID: %s, 文档数: %d", task.TaskID, len(task.DocumentIDs))

	var lastErr error
	for _, id := range task.DocumentIDs {
		if err := es.DeleteDocument(ctx, p.esCfg.DocumentIndex, id); err != nil {
			log.Errorf("[Processor] 删除文档索引条目失败, documentID: %d, error: %v", id, err)
			lastErr = err
			continue
		}
		if err := es.DeleteDocumentPages(ctx, p.esCfg.PageIndex, id); err != nil {
			log.Errorf("[Processor] 删除文档页面索引失败, documentID: %d, error: %v", id, err)
			lastErr = err
			continue
		}
		log.Infof("[Processor] 文档 %d 的索引已清理", id)
	}
	return lastErr
}
