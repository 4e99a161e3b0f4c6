package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Generation GenerationConfig `mapstructure:"generation"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Must outlast a generation call
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" or "memory"
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

// GenerationConfig configures the plan generation collaborator.
type GenerationConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Endpoint    string        `mapstructure:"endpoint"` // Base URL; the API version is appended
	APIVersion  string        `mapstructure:"api_version"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"` // 0 leaves the transport without a deadline
}

// S3Config configures the transcript archive. An empty bucket disables it.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig holds the secret used to verify bearer tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	if envErr := godotenv.Load(); envErr != nil {
		log.Println("INFO: No .env file found, using environment only")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, generation.api_key -> GENERATION_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	if config.JWT.Secret == "" {
		return config, errors.New("jwt.secret (JWT_SECRET) is required")
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "2m")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_planner")
	v.SetDefault("generation.model", "gemini-2.5-pro")
	v.SetDefault("generation.endpoint", "https://generativelanguage.googleapis.com/")
	v.SetDefault("generation.api_version", "v1beta")
	v.SetDefault("generation.temperature", 0.4)
	v.SetDefault("generation.timeout", "0s")
	v.SetDefault("s3.use_ssl", true)
	// Keys below have no default but must be known to viper so env overrides reach Unmarshal.
	v.SetDefault("generation.api_key", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
}
