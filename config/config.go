package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Provider struct {
		BaseURL  string `mapstructure:"baseURL"`
		Country  string `mapstructure:"country"`
		Language string `mapstructure:"language"`
	} `mapstructure:"provider"`
	Cache struct {
		SearchTTL        time.Duration `mapstructure:"searchTTL"`
		GeocodeTTL       time.Duration `mapstructure:"geocodeTTL"`
		SearchMaxEntries int           `mapstructure:"searchMaxEntries"`
	} `mapstructure:"cache"`
	Nearby struct {
		FanOut         int `mapstructure:"fanOut"`
		RecentSearches int `mapstructure:"recentSearches"`
	} `mapstructure:"nearby"`
	Metrics struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Fall back to the embedded config when no file is found on disk.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
