package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/voicequery/voicequery/internal/export"
)

// Speech recognition backends selectable via STT_BACKEND
const (
	BackendWhisper = "whisper"
	BackendGoogle  = "google"
	BackendMock    = "mock"
)

const (
	defaultHost         = "0.0.0.0"
	defaultPort         = 8000
	defaultMaxUploadMB  = 32
	defaultModel        = "base"
	defaultExportFormat = export.FormatJSON
)

type Config struct {
	Server ServerConfig
	STT    STTConfig
	Gemini GeminiConfig
	Export ExportConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	MaxUploadMB int
}

type STTConfig struct {
	Backend         string // "whisper", "google" or "mock"
	Model           string
	ServerURL       string
	APIKey          string
	Temperature     float32
	DefaultLanguage string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ExportConfig struct {
	Dir    string // empty disables transcript export
	Format string
}

type AuthConfig struct {
	JWTSecret string // empty disables bearer authentication
}

// Load reads configuration from the environment, applying defaults for
// everything optional
func Load() (*Config, error) {
	port, err := getEnvInt("API_PORT", defaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	maxUploadMB, err := getEnvInt("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	temperature, err := getEnvFloat("WHISPER_TEMPERATURE", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid WHISPER_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("API_HOST", defaultHost),
			Port:        port,
			MaxUploadMB: maxUploadMB,
		},
		STT: STTConfig{
			Backend:         getEnv("STT_BACKEND", BackendWhisper),
			Model:           getEnv("WHISPER_MODEL", defaultModel),
			ServerURL:       getEnv("WHISPER_SERVER_URL", ""),
			APIKey:          getEnv("WHISPER_API_KEY", ""),
			Temperature:     temperature,
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", ""),
		},
		Gemini: GeminiConfig{
			APIKey: firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", ""),
		},
		Export: ExportConfig{
			Dir:    getEnv("EXPORT_DIR", ""),
			Format: getEnv("EXPORT_FORMAT", defaultExportFormat),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}

	return cfg, nil
}

// Address returns the host:port the server binds to
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BodyLimit formats the upload cap for the body limit middleware
func (c ServerConfig) BodyLimit() string {
	return fmt.Sprintf("%dM", c.MaxUploadMB)
}

func (c ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

func (c STTConfig) Validate() error {
	switch c.Backend {
	case BackendWhisper, BackendGoogle, BackendMock:
		return nil
	}
	return fmt.Errorf("unknown STT backend %q, expected %q, %q or %q", c.Backend, BackendWhisper, BackendGoogle, BackendMock)
}

func (c ExportConfig) Validate() error {
	if c.Dir == "" {
		return nil
	}
	if !export.ValidFormat(c.Format) {
		return fmt.Errorf("unknown export format %q", c.Format)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.STT.Validate(); err != nil {
		return fmt.Errorf("stt: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float32) (float32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	return float32(f), err
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
