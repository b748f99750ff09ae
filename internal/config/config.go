// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Log           LogConfig           `mapstructure:"log"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Metadata      MetadataConfig      `mapstructure:"metadata"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// JWTConfig 存储管理端服务令牌的配置。
type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	TokenExpireHours int    `mapstructure:"token_expire_hours"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Addresses     string `mapstructure:"addresses"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	DocumentIndex string `mapstructure:"document_index"`
	PageIndex     string `mapstructure:"page_index"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// MetadataConfig 存储元数据抓取与同步相关的配置。
type MetadataConfig struct {
	// RawBaseURL 是原始文件托管服务的根地址，例如 https://raw.githubusercontent.com。
	RawBaseURL string `mapstructure:"raw_base_url"`
	// OrgBaseURL 是代码托管平台组织主页的根地址，用于在缺少远程组织记录时推导仓库地址。
	OrgBaseURL string `mapstructure:"org_base_url"`
	// ConfigRepoName 是发布者配置仓库的默认名称。
	ConfigRepoName string `mapstructure:"config_repo_name"`
	// DefaultBranch 是唯一会触发元数据同步的分支。
	DefaultBranch string `mapstructure:"default_branch"`
	// FetchTimeoutSeconds 控制抓取远端配置文件的超时时间。
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds"`
	// LockTTLSeconds 控制每个发布者同步锁的过期时间。
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	applyDefaults(&Conf)
}

// applyDefaults 为缺省的元数据配置填入约定值。
func applyDefaults(c *Config) {
	if c.Metadata.RawBaseURL == "" {
		c.Metadata.RawBaseURL = "https://raw.githubusercontent.com"
	}
	if c.Metadata.OrgBaseURL == "" {
		c.Metadata.OrgBaseURL = "https://github.com"
	}
	if c.Metadata.ConfigRepoName == "" {
		c.Metadata.ConfigRepoName = "italia-conf"
	}
	if c.Metadata.DefaultBranch == "" {
		c.Metadata.DefaultBranch = "master"
	}
	if c.Metadata.FetchTimeoutSeconds <= 0 {
		c.Metadata.FetchTimeoutSeconds = 10
	}
	if c.Metadata.LockTTLSeconds <= 0 {
		c.Metadata.LockTTLSeconds = 60
	}
}
