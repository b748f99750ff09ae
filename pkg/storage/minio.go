// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"docs-italia-go/internal/config"
	"docs-italia-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 是一个全局的 MinIO 客户端实例。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端并确保指定的存储桶存在。
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}

	log.Info("MinIO 客户端初始化成功")

	// 检查存储桶 (Bucket) 是否存在，如果不存在则创建
	ctx := context.Background()
	bucketName := cfg.BucketName
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("检查 MinIO 存储桶失败", err)
	}

	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", bucketName)
		err = MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			log.Fatal("创建 MinIO 存储桶失败", err)
		}
		log.Infof("存储桶 '%s' 创建成功", bucketName)
	} else {
		log.Infof("存储桶 '%s' 已存在", bucketName)
	}
}

// SnapshotArchiver 把每次成功校验的原始配置文件归档到对象存储，
// 归档失败只记录日志，不影响同步流程。
type SnapshotArchiver struct {
	bucket string
}

// NewSnapshotArchiver 创建一个新的 SnapshotArchiver 实例。
func NewSnapshotArchiver(bucket string) *SnapshotArchiver {
	return &SnapshotArchiver{bucket: bucket}
}

// Archive 把一份原始配置文件保存为带时间戳的快照对象。
func (a *SnapshotArchiver) Archive(ctx context.Context, publisherSlug, fileName string, content []byte) error {
	objectName := fmt.Sprintf("snapshots/%s/%d-%s", publisherSlug, time.Now().Unix(), fileName)
	_, err := MinioClient.PutObject(
		ctx,
		a.bucket,
		objectName,
		bytes.NewReader(content),
		int64(len(content)),
		minio.PutObjectOptions{ContentType: "text/yaml"},
	)
	if err != nil {
		return fmt.Errorf("归档配置快照失败: %w", err)
	}
	return nil
}
