// Package polish sends a CV to a language model for rewriting and merges the reply
// back into the caller's value.
package polish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-forge/internal/editor"
	"github.com/jonathan/cv-forge/internal/llm"
	"github.com/jonathan/cv-forge/internal/prompts"
	"github.com/jonathan/cv-forge/internal/schemas"
	"github.com/jonathan/cv-forge/internal/types"
)

// Polisher runs polish calls against one LLM client
type Polisher struct {
	client  llm.Client
	logger  *zap.Logger
	timeout time.Duration
	newID   editor.IDFunc
}

// Option configures a Polisher
type Option func(*Polisher)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Polisher) { p.logger = logger }
}

// WithTimeout bounds each call; zero keeps the default
func WithTimeout(d time.Duration) Option {
	return func(p *Polisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithIDFunc sets the generator used for ids the model left empty or duplicated
func WithIDFunc(f editor.IDFunc) Option {
	return func(p *Polisher) { p.newID = f }
}

// New creates a Polisher
func New(client llm.Client, opts ...Option) *Polisher {
	p := &Polisher{
		client:  client,
		logger:  zap.NewNop(),
		timeout: llm.DefaultTimeout,
		newID:   editor.NewID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Preflight rejects a CV with neither a name nor any experience
func Preflight(cv types.CVData) error {
	if cv.FullName == "" && len(cv.Experience) == 0 {
		return &ValidationError{Message: MsgNeedInput}
	}
	return nil
}

// Polish rewrites the CV through the model. On any error the returned value is cv, unchanged.
func (p *Polisher) Polish(ctx context.Context, cv types.CVData) (types.CVData, error) {
	if err := Preflight(cv); err != nil {
		return cv, err
	}

	prompt, err := BuildPrompt(cv)
	if err != nil {
		return cv, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.client.GenerateJSON(ctx, llm.Request{
		System: prompts.MustGet(prompts.PolishingFile, prompts.KeyPolishSystem),
		Prompt: prompt,
		Schema: CVSchema(),
	})
	if err != nil {
		p.logger.Error("polish call failed",
			zap.String("model", p.client.Model()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return cv, classify(err)
	}

	polished, err := ParseResponse(raw)
	if err != nil {
		p.logger.Error("polish response unusable",
			zap.String("model", p.client.Model()),
			zap.String("raw", raw),
			zap.Error(err),
		)
		return cv, err
	}

	merged, err := EnsureIDs(Merge(cv, polished), p.newID)
	if err != nil {
		return cv, &ParseError{Message: "failed to assign ids", Raw: raw, Cause: err}
	}

	p.logger.Info("polish completed",
		zap.String("model", p.client.Model()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(raw)),
		zap.Int("experience", len(merged.Experience)),
	)
	return merged, nil
}

// BuildPrompt renders the user prompt: target-job context, rewriting rules, and the CV without its photo.
func BuildPrompt(cv types.CVData) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cv.WithoutPhoto().Normalize()); err != nil {
		return "", fmt.Errorf("failed to encode CV: %w", err)
	}

	notAvailable := prompts.MustGet(prompts.PolishingFile, prompts.KeyFallbackNotPresent)
	template := prompts.MustGet(prompts.PolishingFile, prompts.KeyPolishCV)
	return prompts.Format(template, map[string]string{
		"TargetCompany":        orDefault(cv.TargetCompany, prompts.MustGet(prompts.PolishingFile, prompts.KeyFallbackCompany)),
		"TargetRole":           orDefault(cv.TargetRole, notAvailable),
		"TargetJobDescription": orDefault(cv.TargetJobDescription, notAvailable),
		"CVData":               strings.TrimSpace(buf.String()),
	}), nil
}

// ParseResponse strips code fences, checks the reply's shape and decodes it.
func ParseResponse(raw string) (types.CVData, error) {
	text := llm.CleanJSONBlock(raw)
	if text == "" {
		return types.CVData{}, &ParseError{Message: "empty response", Raw: raw}
	}

	if err := schemas.ValidateCVResponse([]byte(text)); err != nil {
		return types.CVData{}, &ParseError{Message: "response does not match CV shape", Raw: raw, Cause: err}
	}

	var out types.CVData
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return types.CVData{}, &ParseError{Message: "failed to parse JSON response", Raw: raw, Cause: err}
	}
	return out, nil
}

// Merge combines the model's record with the value it was produced from.
// The returned record wins, except for the photo, the target-job context and the
// theme color, which always come from before. Absent lists become empty lists.
func Merge(before, polished types.CVData) types.CVData {
	out := polished.Clone()
	out.PhotoURL = before.PhotoURL
	out.TargetCompany = before.TargetCompany
	out.TargetRole = before.TargetRole
	out.TargetJobDescription = before.TargetJobDescription
	out.ThemeColor = before.ThemeColor
	return out.Normalize()
}

// EnsureIDs gives a fresh id to every entry whose id is empty or repeats an earlier one in its section.
func EnsureIDs(cv types.CVData, newID editor.IDFunc) (types.CVData, error) {
	if newID == nil {
		newID = editor.NewID
	}
	out := cv
	var err error
	if out.Experience, err = ensureIDs(cv.Experience, func(e *types.Experience) *string { return &e.ID }, newID); err != nil {
		return cv, err
	}
	if out.Education, err = ensureIDs(cv.Education, func(e *types.Education) *string { return &e.ID }, newID); err != nil {
		return cv, err
	}
	if out.Awards, err = ensureIDs(cv.Awards, func(a *types.Award) *string { return &a.ID }, newID); err != nil {
		return cv, err
	}
	if out.Memberships, err = ensureIDs(cv.Memberships, func(m *types.Membership) *string { return &m.ID }, newID); err != nil {
		return cv, err
	}
	return out, nil
}

func ensureIDs[T any](items []T, id func(*T) *string, newID editor.IDFunc) ([]T, error) {
	if items == nil {
		return nil, nil
	}
	out := make([]T, len(items))
	copy(out, items)

	taken := make([]string, 0, len(out))
	seen := make(map[string]bool, len(out))
	for i := range out {
		if v := *id(&out[i]); v != "" {
			taken = append(taken, v)
		}
	}
	for i := range out {
		v := id(&out[i])
		if *v != "" && !seen[*v] {
			seen[*v] = true
			continue
		}
		fresh, err := editor.UniqueID(taken, newID)
		if err != nil {
			return items, err
		}
		*v = fresh
		taken = append(taken, fresh)
		seen[fresh] = true
	}
	return out, nil
}

func classify(err error) error {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return &ConfigError{Message: "provider credential not configured", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Message: "request timed out", Cause: err}
	}
	return &ProviderError{Message: "request failed", Cause: err}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
