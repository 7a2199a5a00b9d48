package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port      string `mapstructure:"port"`
			CertFile  string `mapstructure:"certFile"`
			KeyFile   string `mapstructure:"keyFile"`
			EnableTLS bool   `mapstructure:"enableTLS"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	Places struct {
		BaseURL string        `mapstructure:"baseURL"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"places"`
	Ingestion IngestionConfig `mapstructure:"ingestion"`
}

// IngestionConfig tunes the seed pipeline. Tile size/overlap are deliberately
// configuration, not constants: the right values depend on the upstream
// per-call result cap and need to be validated empirically.
type IngestionConfig struct {
	Mode             string        `mapstructure:"mode"`
	MaxPagesPerQuery int           `mapstructure:"maxPagesPerQuery"`
	PageDelay        time.Duration `mapstructure:"pageDelay"`
	QueryDelay       time.Duration `mapstructure:"queryDelay"`
	TileRadiusKm     float64       `mapstructure:"tileRadiusKm"`
	TileOverlap      float64       `mapstructure:"tileOverlap"`
	MinPhotos        int           `mapstructure:"minPhotos"`
	Truncate         bool          `mapstructure:"truncate"`
	InsertOnly       bool          `mapstructure:"insertOnly"`
	Region           RegionConfig  `mapstructure:"region"`
}

type RegionConfig struct {
	Name   string  `mapstructure:"name"`
	MinLat float64 `mapstructure:"minLat"`
	MaxLat float64 `mapstructure:"maxLat"`
	MinLng float64 `mapstructure:"minLng"`
	MaxLng float64 `mapstructure:"maxLng"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	// Env overrides for values that change per deployment
	if t := os.Getenv("SEED_TRUNCATE"); t == "1" || t == "true" {
		config.Ingestion.Truncate = true
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.HTTPPort = port
	}

	return config, nil
}

// PlacesAPIKey returns the server-held Google Places key. It is environment
// only, never in config files, so the key cannot leak through an embedded
// config shipped in the binary.
func PlacesAPIKey() string {
	return os.Getenv("GOOGLE_MAPS_API_KEY")
}

// DatabaseURL returns an explicit connection string override, used by hosted
// environments that hand out a single DATABASE_URL.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}
