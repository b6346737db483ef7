package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel       string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string    `yaml:"http-port" env:"PORT" env-default:"3001"`
	StaticDir      string    `yaml:"static-dir" env:"STATIC_DIR" env-default:"./public"`
	AllowedOrigins []string  `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-default:"*"`
	Redis          Redis     `yaml:"redis"`
	WebSocket      WebSocket `yaml:"websocket"`
	Archive        Archive   `yaml:"archive"`
}

// Redis is optional: with no host, finished matches are not archived.
type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type WebSocket struct {
	SendBuffer     int           `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"32"`
	PingInterval   time.Duration `yaml:"ping-interval" env:"WS_PING_INTERVAL" env-default:"30s"`
	PongWait       time.Duration `yaml:"pong-wait" env:"WS_PONG_WAIT" env-default:"60s"`
	WriteWait      time.Duration `yaml:"write-wait" env:"WS_WRITE_WAIT" env-default:"10s"`
	MaxMessageSize int64         `yaml:"max-message-size" env:"WS_MAX_MESSAGE_SIZE" env-default:"1024"`
}

type Archive struct {
	QueueSize int           `yaml:"queue-size" env:"ARCHIVE_QUEUE_SIZE" env-default:"64"`
	MatchTTL  time.Duration `yaml:"match-ttl" env:"ARCHIVE_MATCH_TTL" env-default:"168h"`
}

// Load reads path when it exists and the environment otherwise.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	return config, nil
}

// MustLoad - load configuration from config.yml or the environment.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) Enabled() bool {
	return that.Host != ""
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
