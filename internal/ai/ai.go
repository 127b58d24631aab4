// Package ai generates short texts (task descriptions, standups) with a
// configurable LLM provider.
package ai

import (
	"context"
	"fmt"
	"strings"

	"echoboard/internal/apperr"
	"echoboard/internal/config"
	"echoboard/pkg/logger"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service bounds every provider call with the configured timeout and maps
// failures onto apperr.Upstream. Calls are never retried.
type Service struct {
	provider string
	gen      Generator
	cfg      config.AIConfig
}

var _ Generator = (*Service)(nil)

// New builds the provider selected by cfg.Provider. Unknown names fall back
// to the OpenAI compatible client, like a custom BaseURL does.
func New(cfg config.AIConfig) (*Service, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		gen = newAnthropic(cfg)
	case "gemini":
		gen, err = newGemini(cfg)
	case "ollama":
		gen, err = newOllama(cfg)
	default:
		gen = newOpenAI(cfg)
	}
	if err != nil {
		return nil, err
	}
	return NewWithGenerator(cfg, gen), nil
}

// NewWithGenerator wraps an existing Generator, mostly for tests.
func NewWithGenerator(cfg config.AIConfig, gen Generator) *Service {
	return &Service{provider: cfg.Provider, gen: gen, cfg: cfg}
}

func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	logger.Info().Str("provider", s.provider).Str("model", s.cfg.Model).Msg("[AI] Generating")
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Str("provider", s.provider).Msg("[AI] Provider call failed")
		return "", apperr.Wrap(apperr.Upstream, "AI provider request failed", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.E(apperr.Upstream, "AI provider returned an empty answer")
	}
	logger.Info().Int("chars", len(text)).Msg("[AI] Response received")
	return text, nil
}

func modelOr(cfg config.AIConfig, fallback string) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return fallback
}

func errorf(provider string, err error) error {
	return fmt.Errorf("%s API error: %w", provider, err)
}
