package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIKeyPath = "/run/secrets/api_keys/openrouter"
	APIKeyPathEnvVar  = "OPENROUTER_API_KEY_FILE"
	// EnvFileEnvVar names a config file used when no .env sits next to the
	// executable.
	EnvFileEnvVar = "SCREEN_ANSWER_OVERLAY"

	DefaultBaseURL         = "https://openrouter.ai/api/v1"
	DefaultTranscribeModel = "openai/gpt-4o"
	DefaultAnswerModel     = "openai/o1-preview"
	DefaultLogLevel        = "info"
)

var ErrMissingAPIKey = errors.New("no API key: set OPENROUTER_API_KEY or provide a key file")

type LoadOptions struct {
	APIKeyPathOverride string
	LogLevelOverride   string
}

type Config struct {
	APIKey     string
	APIKeyPath string
	BaseURL    string

	// DirectModel answers from the image in one call; TranscribeModel reads
	// the image for the two-step strategy; AnswerModel answers the
	// transcription.
	DirectModel     string
	TranscribeModel string
	AnswerModel     string

	LogLevel          string
	EnableFileLogging bool
	CopyToClipboard   bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, the file named by SCREEN_ANSWER_OVERLAY
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	apiKeyPath := resolveAPIKeyPath(opts, dotenvValues)
	visionModel := getEnvWithDefault("MODEL", DefaultTranscribeModel)

	logLevel := getEnvWithDefault("LOG_LEVEL", DefaultLogLevel)
	if override := strings.TrimSpace(opts.LogLevelOverride); override != "" {
		logLevel = override
	}

	cfg := &Config{
		APIKey:            resolveAPIKey(apiKeyPath),
		APIKeyPath:        apiKeyPath,
		BaseURL:           getEnvWithDefault("API_BASE_URL", DefaultBaseURL),
		DirectModel:       getEnvWithDefault("DIRECT_MODEL", visionModel),
		TranscribeModel:   getEnvWithDefault("TRANSCRIBE_MODEL", visionModel),
		AnswerModel:       getEnvWithDefault("ANSWER_MODEL", DefaultAnswerModel),
		LogLevel:          strings.ToLower(logLevel),
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING"),
		CopyToClipboard:   getEnvBool("COPY_ANSWER_TO_CLIPBOARD"),
	}

	return cfg, nil
}

// Validate reports the first setting that prevents the overlay from
// answering anything.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	for name, v := range map[string]string{
		"API_BASE_URL":     c.BaseURL,
		"DIRECT_MODEL":     c.DirectModel,
		"TRANSCRIBE_MODEL": c.TranscribeModel,
		"ANSWER_MODEL":     c.AnswerModel,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}
	return nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

func resolveAPIKeyPath(opts LoadOptions, dotenvValues map[string]string) string {
	keyPath := DefaultAPIKeyPath

	if envPath := strings.TrimSpace(os.Getenv(APIKeyPathEnvVar)); envPath != "" {
		keyPath = envPath
	}

	if dotenvPath := strings.TrimSpace(dotenvValues[APIKeyPathEnvVar]); dotenvPath != "" {
		keyPath = dotenvPath
	}

	if overridePath := strings.TrimSpace(opts.APIKeyPathOverride); overridePath != "" {
		keyPath = overridePath
	}

	return keyPath
}

func resolveAPIKey(keyPath string) string {
	if data, err := os.ReadFile(keyPath); err == nil {
		if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
			return fileKey
		}
	}

	return strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && b
}
