// Package ai provides the optional LLM-backed keyword expander. The static
// synonym table always remains the baseline; this only widens the search.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-5-mini"
	maxExpandedTerms   = 10
)

type ExpanderConfig struct {
	GeminiAPIKey   string
	OpenAIAPIKey   string
	EnableFallback bool
}

// KeywordExpander asks an LLM for additional search terms related to a
// channel. Gemini is primary; OpenAI serves as fallback when enabled.
type KeywordExpander struct {
	gemini         *genai.Client
	openaiClient   *openai.Client
	enableFallback bool
	logger         *zap.Logger
}

// NewKeywordExpander returns nil without error when no API key is configured;
// the engine treats a nil expander as the feature being off.
func NewKeywordExpander(ctx context.Context, cfg ExpanderConfig, logger *zap.Logger) (*KeywordExpander, error) {
	if cfg.GeminiAPIKey == "" && cfg.OpenAIAPIKey == "" {
		return nil, nil
	}

	expander := &KeywordExpander{
		enableFallback: cfg.EnableFallback,
		logger:         logger,
	}

	if cfg.GeminiAPIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		expander.gemini = client
	}

	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		expander.openaiClient = &client
	}

	logger.Info("Keyword expander enabled",
		zap.Bool("gemini", expander.gemini != nil),
		zap.Bool("openai_fallback", expander.openaiClient != nil && cfg.EnableFallback),
	)
	return expander, nil
}

// Expand returns extra search terms for the channel. Errors are returned to
// the caller, which degrades to the static table.
func (e *KeywordExpander) Expand(ctx context.Context, title string, keywords []string) ([]string, error) {
	prompt := buildPrompt(title, keywords)

	text, err := e.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	terms, err := parseTerms(text)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Keyword expansion produced terms",
		zap.String("title", title),
		zap.Int("count", len(terms)),
	)
	return terms, nil
}

func (e *KeywordExpander) generate(ctx context.Context, prompt string) (string, error) {
	if e.gemini != nil {
		text, err := e.generateGemini(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if !e.enableFallback || e.openaiClient == nil {
			return "", err
		}
		e.logger.Warn("Gemini expansion failed, falling back to OpenAI", zap.Error(err))
	}

	if e.openaiClient == nil {
		return "", fmt.Errorf("no expansion provider available")
	}
	return e.generateOpenAI(ctx, prompt)
}

func (e *KeywordExpander) generateGemini(ctx context.Context, prompt string) (string, error) {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  256,
		ResponseMIMEType: "application/json",
	}

	resp, err := e.gemini.Models.GenerateContent(ctx, defaultGeminiModel, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, config)
	if err != nil {
		return "", err
	}

	text := extractGeminiText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func (e *KeywordExpander) generateOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := e.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT5Mini,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You must respond with a valid JSON array of strings only."),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(256),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(title string, keywords []string) string {
	return fmt.Sprintf(`Telegram channel %q is described by these keywords: %s.
Suggest up to %d additional short search terms (Russian or English) that would
find channels with a similar audience. Respond with a JSON array of strings
only, no explanations.`, title, strings.Join(keywords, ", "), maxExpandedTerms)
}

// parseTerms decodes the model output, tolerating prose around the array.
func parseTerms(text string) ([]string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in expansion response")
	}

	var raw []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse expansion response: %w", err)
	}

	terms := make([]string, 0, maxExpandedTerms)
	seen := make(map[string]struct{})
	for _, term := range raw {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
		if len(terms) >= maxExpandedTerms {
			break
		}
	}
	return terms, nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}
