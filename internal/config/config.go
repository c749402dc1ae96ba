package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type TradeConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	TradeDB    `yaml:"trade_db"`
	LogConfig  `yaml:"log_config"`
	Razorpay   `yaml:"razorpay"`
	Kafka      `yaml:"kafka"`
	Notifier   `yaml:"notifier"`
	Escrow     `yaml:"escrow"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type TradeDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Razorpay struct {
	BaseURL   string        `yaml:"base_url"`
	KeyID     string        `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	KeySecret string        `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Kafka struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic"`
}

type Notifier struct {
	CallbackURL string `yaml:"callback_url"`
}

type Escrow struct {
	FeeBps      int64         `yaml:"fee_bps"`
	GracePeriod time.Duration `yaml:"grace_period"`
	SweepEvery  time.Duration `yaml:"sweep_every"`
}

func MustLoad() *TradeConfig {
	configPath := os.Getenv("TRADE_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("TRADE_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg TradeConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
