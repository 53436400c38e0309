// Package llm provides centralized LLM configuration and client abstractions.
// A Client hides whether the provider enforces a response schema natively (Gemini)
// or only receives it as text in the system prompt (OpenAI-compatible endpoints).
package llm

import (
	"fmt"
	"strings"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderNVIDIA is the NVIDIA-hosted OpenAI-compatible chat completions API
	ProviderNVIDIA Provider = "nvidia"
)

// Default models and endpoints per provider
const (
	DefaultGeminiModel   = "gemini-3-flash-preview"
	DefaultNVIDIAModel   = "z-ai/glm4.7"
	DefaultNVIDIABaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultTimeout       = 120 * time.Second
)

// Sampling defaults sent to OpenAI-compatible endpoints
const (
	defaultTemperature = 1.0
	defaultTopP        = 1.0
	defaultMaxTokens   = 16384
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	APIKey   string

	// BaseURL overrides the chat completions base (for example a local relay).
	// When it is set and APIKey is empty, requests go out unauthenticated.
	BaseURL string

	Timeout     time.Duration
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultConfigFor(ProviderGemini)
}

// DefaultConfigFor returns the defaults for a provider
func DefaultConfigFor(p Provider) *Config {
	cfg := &Config{
		Provider:    p,
		Timeout:     DefaultTimeout,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		MaxTokens:   defaultMaxTokens,
	}
	switch p {
	case ProviderNVIDIA:
		cfg.Model = DefaultNVIDIAModel
		cfg.BaseURL = DefaultNVIDIABaseURL
	default:
		cfg.Provider = ProviderGemini
		cfg.Model = DefaultGeminiModel
	}
	return cfg
}

// ParseProvider maps a configuration string to a Provider
func ParseProvider(raw string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ProviderGemini:
		return ProviderGemini, nil
	case ProviderNVIDIA:
		return ProviderNVIDIA, nil
	}
	return "", fmt.Errorf("unknown LLM provider %q", raw)
}

// GetModel returns the configured model, falling back to the provider default
func (c *Config) GetModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderNVIDIA {
		return DefaultNVIDIAModel
	}
	return DefaultGeminiModel
}

// Credentialed reports whether requests will carry a credential.
// A relay base URL without a key is a valid, uncredentialed configuration.
func (c *Config) Credentialed() bool {
	return strings.TrimSpace(c.APIKey) != ""
}
