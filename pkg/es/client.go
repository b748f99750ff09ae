// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"docs-italia-go/internal/config"
	"docs-italia-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端，并确保文档与页面两个索引存在。
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client

	if err := createIndexIfNotExists(esCfg.DocumentIndex, documentMapping); err != nil {
		return err
	}
	return createIndexIfNotExists(esCfg.PageIndex, pageMapping)
}

// documentMapping 是文档索引的结构，按发布者、项目分组和标签过滤搜索结果。
const documentMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"slug": { "type": "keyword" },
			"description": { "type": "text" },
			"language": { "type": "keyword" },
			"repo_url": { "type": "keyword" },
			"tags": { "type": "keyword" },
			"publisher": { "type": "keyword" },
			"publisher_project": { "type": "keyword" }
		}
	}
}`

// pageMapping 是页面索引的结构，document_id 指向文档索引里的归属文档。
const pageMapping = `{
	"mappings": {
		"properties": {
			"document_id": { "type": "long" },
			"title": { "type": "text" },
			"path": { "type": "keyword" },
			"content": { "type": "text" }
		}
	}
}`

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName, mapping string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// DeleteDocument 从文档索引中删除一条记录，文档不存在时静默成功。
func DeleteDocument(ctx context.Context, indexName string, documentID uint) error {
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: fmt.Sprintf("%d", documentID),
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 清理是尽力而为的：记录不存在视为已清理
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("从 Elasticsearch 删除文档出错: %s", res.String())
		return errors.New("failed to delete document from index")
	}
	return nil
}

// DeleteDocumentPages 按归属文档删除页面索引里的所有条目，索引不存在时静默成功。
func DeleteDocumentPages(ctx context.Context, indexName string, documentID uint) error {
	query := fmt.Sprintf(`{"query": {"term": {"document_id": %d}}}`, documentID)
	req := esapi.DeleteByQueryRequest{
		Index: []string{indexName},
		Body:  strings.NewReader(query),
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("从 Elasticsearch 删除文档页面出错: %s", res.String())
		return errors.New("failed to delete document pages from index")
	}
	return nil
}
