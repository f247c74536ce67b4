package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	OpenAIAPIKey           string
	TranscribeModel        string
	ChatModel              string
	MaxAudioMB             int
	ReferenceCacheTTL      time.Duration
	DedupeTTL              time.Duration
	NATSURL                string
	EventSubject           string
	SeedEnabled            bool
	SeedToken              string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SCRIBE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Scribe API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "scribe/submissions")
	v.SetDefault("openai.transcribe_model", "whisper-1")
	v.SetDefault("openai.chat_model", "gpt-4o-mini")
	v.SetDefault("audio.max_mb", 25)
	v.SetDefault("reference.cache_ttl", "10m")
	v.SetDefault("submission.dedupe_ttl", "5m")
	v.SetDefault("events.subject", "scribe.submissions.created")
	v.SetDefault("seed.enabled", false)

	cacheTTL, err := parseDuration(v.GetString("reference.cache_ttl"), 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid reference cache ttl: %w", err)
	}

	dedupeTTL, err := parseDuration(v.GetString("submission.dedupe_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid submission dedupe ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		TranscribeModel:        v.GetString("openai.transcribe_model"),
		ChatModel:              v.GetString("openai.chat_model"),
		MaxAudioMB:             v.GetInt("audio.max_mb"),
		ReferenceCacheTTL:      cacheTTL,
		DedupeTTL:              dedupeTTL,
		NATSURL:                v.GetString("nats.url"),
		EventSubject:           v.GetString("events.subject"),
		SeedEnabled:            v.GetBool("seed.enabled"),
		SeedToken:              v.GetString("seed.token"),
	}

	if cfg.MaxAudioMB <= 0 {
		cfg.MaxAudioMB = 25
	}

	if cfg.SeedEnabled && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided when seeding is enabled")
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}

	return time.ParseDuration(raw)
}
