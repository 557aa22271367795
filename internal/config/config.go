package config

import (
	"log"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

const (
	defaultConfigPath = "configs/config_local.toml"
	// EnvConfigPath 覆盖配置文件路径
	EnvConfigPath = "SUPPORTDESK_CONFIG"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	// ServerName 对外主机名（host:port），用于判断 webhook 是否指向本服务
	ServerName        string `toml:"serverName"`
	EnableTLSRedirect bool   `toml:"enableTLSRedirect"`
	CertFile          string `toml:"certFile"`
	KeyFile           string `toml:"keyFile"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
	Level   string `toml:"level"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
	// NotificationCacheSeconds 通知列表缓存时长
	NotificationCacheSeconds int `toml:"notificationCacheSeconds"`
}

type KafkaConfig struct {
	Enabled           bool     `toml:"enabled"`
	Brokers           []string `toml:"brokers"`
	ClientID          string   `toml:"clientID"`
	NotificationTopic string   `toml:"notificationTopic"`
	Partitions        int32    `toml:"partitions"`
	Replication       int16    `toml:"replication"`
	RetentionHours    int      `toml:"retentionHours"`
}

type WebhookConfig struct {
	TimeoutSeconds int    `toml:"timeoutSeconds"`
	UserAgent      string `toml:"userAgent"`
	// ReceiverPath 内置的 webhook 接收路由，相对地址的 webhook 投递到这里
	ReceiverPath string `toml:"receiverPath"`
}

type RealtimeConfig struct {
	SendBuffer          int `toml:"sendBuffer"`
	WriteTimeoutSeconds int `toml:"writeTimeoutSeconds"`
}

type Config struct {
	MainConfig     `toml:"mainConfig"`
	MysqlConfig    `toml:"mysqlConfig"`
	JwtConfig      `toml:"jwtConfig"`
	LogConfig      `toml:"logConfig"`
	RedisConfig    `toml:"redisConfig"`
	KafkaConfig    `toml:"kafkaConfig"`
	WebhookConfig  `toml:"webhookConfig"`
	RealtimeConfig `toml:"realtimeConfig"`
}

var (
	config *Config
	once   sync.Once
)

// Default 未配置项的默认值
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "SupportDesk",
			Host:    "0.0.0.0",
			Port:    8000,
		},
		LogConfig: LogConfig{
			LogPath: "logs/supportdesk.log",
			Level:   "info",
		},
		JwtConfig: JwtConfig{
			ExpireHours: 24,
		},
		RedisConfig: RedisConfig{
			NotificationCacheSeconds: 60,
		},
		KafkaConfig: KafkaConfig{
			ClientID:          "supportdesk",
			NotificationTopic: "supportdesk.notifications",
			Partitions:        3,
			Replication:       1,
			RetentionHours:    168,
		},
		WebhookConfig: WebhookConfig{
			TimeoutSeconds: 5,
			UserAgent:      "SupportDesk-Webhook/1.0",
			ReceiverPath:   "/api/notifications/webhooks/notifications",
		},
		RealtimeConfig: RealtimeConfig{
			SendBuffer:          64,
			WriteTimeoutSeconds: 10,
		},
	}
}

// LoadFrom 读取 path 指向的 toml，缺省项保持默认值
func LoadFrom(path string) (*Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return conf, err
	}
	return conf, nil
}

func LoadConfig() error {
	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = defaultConfigPath
	}
	conf, err := LoadFrom(configPath)
	config = conf
	if err != nil {
		log.Printf("加载配置文件失败: %v, 使用默认设置", err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	once.Do(func() {
		if config == nil {
			_ = LoadConfig()
		}
	})
	return config
}

// SetConfig 直接替换全局配置（测试使用）
func SetConfig(c *Config) {
	once.Do(func() {})
	config = c
}
