package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env-default:"8080"`
	Redis      Redis   `yaml:"redis"`
	Session    Session `yaml:"session"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Session struct {
	TTL string `yaml:"ttl" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// TTLDuration parses the configured session lifetime.
func (that *Session) TTLDuration() (time.Duration, error) {
	ttl, err := time.ParseDuration(that.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session ttl %q: %w", that.TTL, err)
	}

	return ttl, nil
}
