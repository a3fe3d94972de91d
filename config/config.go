package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Cfg 全局配置实例，在服务启动时加载一次
var Cfg *Config

type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Model  ModelConfig  `yaml:"model"`
	JWT    JWTConfig    `yaml:"jwt"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type ModelConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// 对话模型与摘要模型可分开配置
	Name        string `yaml:"name"`
	SummaryName string `yaml:"summary_name"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

// Init 加载并校验配置文件。模型 API Key 缺失视为致命配置错误，
// 服务启动阶段直接失败，而不是推迟到每次请求。
func Init() error {
	path := os.Getenv("MENTORA_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v", path, err)
	}

	if cfg.Model.APIKey == "" {
		return fmt.Errorf("model api_key is not set in %s", path)
	}
	if cfg.Model.SummaryName == "" {
		cfg.Model.SummaryName = cfg.Model.Name
	}

	Cfg = cfg
	return nil
}

// DSN 拼接MySQL连接串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}
