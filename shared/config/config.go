package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Api              Api           `yaml:"api"`
	Socket           Socket        `yaml:"socket"`
	ActivityPageSize int           `yaml:"activity_page_size"` // activities fetched per page on the card detail view
	LogLevel         string        `yaml:"log_level"`
	LogJSON          bool          `yaml:"log_json"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
}

type Api struct {
	BaseURL string `yaml:"base_url"`
}

type Socket struct {
	URL string `yaml:"url"`
	// how long to keep retrying the stream before giving up for good;
	// zero means retry forever
	MaxReconnectWait time.Duration `yaml:"max_reconnect_wait"`
}

type Private struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func (s *Config) Username() string {
	return s.private.Username
}

func (s *Config) Password() string {
	return s.private.Password
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	if public.Api.BaseURL == "" {
		panic("api.base_url is required")
	}
	if public.Socket.URL == "" {
		panic("socket.url is required")
	}
	if public.ActivityPageSize == 0 {
		public.ActivityPageSize = 15
	}
	if public.RequestTimeout == 0 {
		public.RequestTimeout = 10 * time.Second
	}

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
