package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/config"
	"github.com/jonathan/cv-forge/internal/llm"
	"github.com/jonathan/cv-forge/internal/schemas"
	"github.com/jonathan/cv-forge/internal/types"
)

// loadConfig layers environment over the optional config file over built-in defaults
func loadConfig() (config.Config, error) {
	merged := config.Defaults()

	if configFile != "" {
		fileCfg, err := config.LoadConfig(configFile)
		if err != nil {
			return config.Config{}, err
		}
		merged = fileCfg.MergeWithDefaults(merged)
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	merged = envCfg.MergeWithDefaults(merged)

	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// newLLMClient builds the polishing client. A missing credential yields a client
// that fails every call with llm.ErrMissingAPIKey instead of failing startup.
func newLLMClient(ctx context.Context, cfg config.Config, logger *zap.Logger) (llm.Client, error) {
	llmCfg, err := cfg.LLM()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		logger.Warn("polishing unavailable",
			zap.String("provider", string(llmCfg.Provider)),
			zap.Error(err),
		)
		return llm.Unavailable{Err: err, ModelName: llmCfg.GetModel()}, nil
	}
	logger.Info("polishing client ready",
		zap.String("provider", string(llmCfg.Provider)),
		zap.String("model", client.Model()),
	)
	return client, nil
}

// readCV loads and validates a CV document from disk
func readCV(path string) (types.CVData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CVData{}, fmt.Errorf("failed to read CV file: %w", err)
	}
	if err := schemas.ValidateCVDocument(data); err != nil {
		return types.CVData{}, fmt.Errorf("invalid CV document %s: %w", path, err)
	}
	var cv types.CVData
	if err := json.Unmarshal(data, &cv); err != nil {
		return types.CVData{}, fmt.Errorf("failed to unmarshal CV JSON: %w", err)
	}
	return cv.Normalize(), nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
