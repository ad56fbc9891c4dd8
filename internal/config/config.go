package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type ChatConfig struct {
	WSURL        string
	ReconnectMin time.Duration
	ReconnectMax time.Duration
	PingInterval time.Duration
}

type StoreConfig struct {
	Dir    string
	Secret string
}

type PollConfig struct {
	VerifySpec       string
	AppointmentsSpec string
}

type AppConfig struct {
	Environment string
	API         APIConfig
	Chat        ChatConfig
	Store       StoreConfig
	Poll        PollConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "dermalink"))
	}

	v.SetEnvPrefix("DERMALINK")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Store.Dir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve store dir: %w", err)
		}
		cfg.Store.Dir = filepath.Join(dir, "dermalink")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.baseurl", "http://localhost:3000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.useragent", "dermalink-mobile/1.0")

	v.SetDefault("chat.wsurl", "ws://localhost:3000/cable")
	v.SetDefault("chat.reconnectmin", "1s")
	v.SetDefault("chat.reconnectmax", "30s")
	v.SetDefault("chat.pinginterval", "25s")

	v.SetDefault("store.secret", "")

	v.SetDefault("poll.verifyspec", "0 */5 * * * *")        // every 5 minutes
	v.SetDefault("poll.appointmentsspec", "0 */1 * * * *")  // every minute
}
