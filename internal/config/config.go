package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MongoConfig 定义了 MongoDB 数据库的连接配置。
type MongoConfig struct {
	Address  string `yaml:"address"`  // MongoDB 服务器地址
	Username string `yaml:"username"` // 用户名
	Password string `yaml:"password"` // 密码
	Database string `yaml:"database"` // 数据库名称
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`       // Kafka Broker 地址列表
	InboundTopic  string   `yaml:"inboundTopic"`  // 接收入站通知的主题
	OutboundTopic string   `yaml:"outboundTopic"` // 发布出站通知的主题
	GroupID       string   `yaml:"groupID"`       // 消费者组 ID
}

// DatabaseConfigs 包含所有数据库的配置。
type DatabaseConfigs struct {
	MongoDB MongoConfig `yaml:"mongodb"` // MongoDB 数据库配置
	Redis   RedisConfig `yaml:"redis"`   // Redis 数据库配置
	Kafka   KafkaConfig `yaml:"kafka"`   // Kafka 消息队列配置
}

// MemoryConfig 定义了记忆引擎的行为参数。
type MemoryConfig struct {
	StoreName             string  `yaml:"storeName"`             // 持久化存储的名称 (导出文档的 dbName)
	RecentLimit           int     `yaml:"recentLimit"`           // 上下文检索返回的最近会话条数
	TopicLimit            int     `yaml:"topicLimit"`            // 每个话题返回的会话条数
	SearchLimit           int     `yaml:"searchLimit"`           // 上下文检索中事实/偏好的搜索条数
	RecentImportanceFloor float64 `yaml:"recentImportanceFloor"` // 最近会话的重要度下限
	TopicImportanceFloor  float64 `yaml:"topicImportanceFloor"`  // 话题会话的重要度下限
	SearchImportanceFloor float64 `yaml:"searchImportanceFloor"` // 搜索的重要度下限
	ConsolidationInterval string  `yaml:"consolidationInterval"` // 整理扫描的间隔 (例如: "24h")
	CacheBackend          string  `yaml:"cacheBackend"`          // 缓存后端, "memory" 或 "redis"
}

// ServerConfig 定义了 HTTP 查询接口的配置。
type ServerConfig struct {
	Address string `yaml:"address"` // HTTP 监听地址 (例如: ":8080")
}

// AppInfo 对应 'app' 部分，包含应用程序的基本信息。
type AppInfo struct {
	Name        string `yaml:"name"`        // 应用程序名称
	Version     string `yaml:"version"`     // 应用程序版本
	Environment string `yaml:"environment"` // 运行环境 (例如: "development", "production")
}

// LoggerConfig 定义了日志记录器的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug", "warn", "error")
}

// AppConfig 是整个 YAML 文件的根结构，包含了应用程序的所有配置。
type AppConfig struct {
	App       AppInfo         `yaml:"app"`       // 应用程序信息
	Logger    LoggerConfig    `yaml:"logger"`    // 日志记录器配置
	Server    ServerConfig    `yaml:"server"`    // HTTP 服务配置
	Databases DatabaseConfigs `yaml:"databases"` // 数据库配置
	Memory    MemoryConfig    `yaml:"memory"`    // 记忆引擎配置
}

// LoadConfig 函数从指定路径加载并解析 YAML 配置文件。
//
// 参数:
//
//	path: YAML 配置文件的路径。
//
// 返回值:
//
//	*AppConfig: 解析后的应用程序配置结构体。
//	error: 如果文件读取或解析失败，则返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	// 读取 YAML 文件内容。
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 YAML 文件 '%s': %w", path, err)
	}
	var cfg AppConfig
	// 将 YAML 内容解析到 cfg 结构体中。
	err = yaml.Unmarshal(yamlFile, &cfg)
	if err != nil {
		return nil, fmt.Errorf("解析 YAML 文件失败: %w", err)
	}
	return &cfg, nil
}
