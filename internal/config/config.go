// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/llm"
	"github.com/jonathan/cv-forge/internal/session"
)

// DefaultPort is the HTTP port used when none is configured
const DefaultPort = 8080

// Duration is a time.Duration that reads and writes Go duration strings ("90s") in JSON
type Duration struct {
	time.Duration
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"90s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config represents the service configuration. It can be loaded from a JSON file,
// from the environment, or both; FromEnv values are merged over file values.
type Config struct {
	// Server
	Port             int      `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Env              string   `json:"env,omitempty"`
	LogLevel         string   `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	CORSAllowOrigins []string `json:"cors_allow_origins,omitempty"`

	// Polishing
	Provider      string   `json:"provider,omitempty" validate:"omitempty,oneof=gemini nvidia"`
	Model         string   `json:"model,omitempty"`
	GeminiAPIKey  string   `json:"gemini_api_key,omitempty"`
	NVIDIAAPIKey  string   `json:"nvidia_api_key,omitempty"`
	LLMBaseURL    string   `json:"llm_base_url,omitempty" validate:"omitempty,url"`
	PolishTimeout Duration `json:"polish_timeout,omitempty"`

	// Relay
	RelayUpstream string `json:"relay_upstream,omitempty" validate:"omitempty,url"`

	// Editing
	MaxPhotoBytes int64    `json:"max_photo_bytes,omitempty" validate:"gte=0"`
	SessionTTL    Duration `json:"session_ttl,omitempty"`

	// Export
	PDFEnabled bool   `json:"pdf_enabled,omitempty"`
	ChromePath string `json:"chrome_path,omitempty"`
}

var validate = validator.New()

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Port:          DefaultPort,
		Env:           "production",
		LogLevel:      "info",
		Provider:      string(llm.ProviderGemini),
		PolishTimeout: Duration{llm.DefaultTimeout},
		MaxPhotoBytes: editor.DefaultMaxPhotoBytes,
		SessionTTL:    Duration{session.DefaultTTL},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables
// leave the corresponding field zero so the result can be merged over a file.
func FromEnv() (*Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		Env:           get("ENV"),
		LogLevel:      strings.ToLower(get("LOG_LEVEL")),
		Provider:      strings.ToLower(get("LLM_PROVIDER")),
		Model:         get("LLM_MODEL"),
		GeminiAPIKey:  get("GEMINI_API_KEY"),
		NVIDIAAPIKey:  get("NVIDIA_API_KEY"),
		LLMBaseURL:    get("LLM_BASE_URL"),
		RelayUpstream: get("RELAY_UPSTREAM"),
		ChromePath:    get("CHROME_PATH"),
	}

	var errs []error
	if v := get("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PORT: %w", err))
		}
		cfg.Port = port
	}
	if v := get("MAX_PHOTO_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_PHOTO_BYTES: %w", err))
		}
		cfg.MaxPhotoBytes = n
	}
	if v := get("POLISH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("POLISH_TIMEOUT: %w", err))
		}
		cfg.PolishTimeout = Duration{d}
	}
	if v := get("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
		}
		cfg.SessionTTL = Duration{d}
	}
	if v := get("PDF_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PDF_ENABLED: %w", err))
		}
		cfg.PDFEnabled = b
	}
	if v := get("CORS_ALLOW_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, origin)
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: Missing API keys are not an error; polishing reports them per request.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("config error: '%s' failed %s check", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.PolishTimeout.Duration < 0 {
		return fmt.Errorf("config error: 'polish_timeout' must be non-negative")
	}
	if c.SessionTTL.Duration < 0 {
		return fmt.Errorf("config error: 'session_ttl' must be non-negative")
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer env over file over built-in values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Env == "" {
		result.Env = defaults.Env
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.NVIDIAAPIKey == "" {
		result.NVIDIAAPIKey = defaults.NVIDIAAPIKey
	}
	if result.LLMBaseURL == "" {
		result.LLMBaseURL = defaults.LLMBaseURL
	}
	if result.RelayUpstream == "" {
		result.RelayUpstream = defaults.RelayUpstream
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if len(result.CORSAllowOrigins) == 0 {
		result.CORSAllowOrigins = defaults.CORSAllowOrigins
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxPhotoBytes == 0 {
		result.MaxPhotoBytes = defaults.MaxPhotoBytes
	}
	if result.PolishTimeout.Duration == 0 {
		result.PolishTimeout = defaults.PolishTimeout
	}
	if result.SessionTTL.Duration == 0 {
		result.SessionTTL = defaults.SessionTTL
	}

	// Bools cannot distinguish unset from false, so either layer can enable
	result.PDFEnabled = result.PDFEnabled || defaults.PDFEnabled

	return result
}

// LLM builds the polishing client configuration for the selected provider
func (c *Config) LLM() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.Provider)
	if err != nil {
		return nil, err
	}

	out := llm.DefaultConfigFor(provider)
	if c.Model != "" {
		out.Model = c.Model
	}
	if c.PolishTimeout.Duration > 0 {
		out.Timeout = c.PolishTimeout.Duration
	}

	switch provider {
	case llm.ProviderNVIDIA:
		out.APIKey = c.NVIDIAAPIKey
		if c.LLMBaseURL != "" {
			out.BaseURL = c.LLMBaseURL
		}
	default:
		out.APIKey = c.GeminiAPIKey
	}
	return out, nil
}

// Addr returns the listen address for Port
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
