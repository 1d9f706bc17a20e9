package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config defines mailroom configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Mail    MailConfig    `yaml:"mail"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Dir string `yaml:"dir"`
}

type MailConfig struct {
	// Domain is the domain used for outbound From and Reply-To addresses.
	Domain string `yaml:"domain"`
	// Relay is the host:port of the SMTP relay notifications are handed to.
	Relay string `yaml:"relay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Storage: StorageConfig{
			Dir: "mailroom-data",
		},
		Mail: MailConfig{
			Domain: "localhost",
			Relay:  "localhost:25",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("MAILROOM_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dir := os.Getenv("MAILROOM_STORAGE_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if domain := os.Getenv("MAILROOM_MAIL_DOMAIN"); domain != "" {
		cfg.Mail.Domain = domain
	}
	if relay := os.Getenv("MAILROOM_MAIL_RELAY"); relay != "" {
		cfg.Mail.Relay = relay
	}
	if level := os.Getenv("MAILROOM_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
