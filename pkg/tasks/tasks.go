// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// ClearIndexTask 表示一个清理搜索索引的后台任务：
// 把给定文档从文档索引中删除，并按归属文档清空页面索引。
type ClearIndexTask struct {
	// TaskID 用于消费端的失败计数，由生产方生成。
	TaskID string `json:"task_id"`
	// DocumentIDs 是待清理的文档主键列表。
	DocumentIDs []uint `json:"document_ids"`
}
