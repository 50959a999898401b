package prompt

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"slidecast/config"
)

// Source says how a prompt was produced. The distinction between a
// model reply and the deterministic fallback is part of the contract,
// not just a log line.
type Source int

const (
	// SourceModel means the text-generation call succeeded
	SourceModel Source = iota
	// SourceFallback means the model was unavailable or failed and the
	// deterministic "{segment}, {style}" prompt was used instead
	SourceFallback
	// SourceSkip means the segment or style input itself was empty;
	// there is nothing to generate an image from
	SourceSkip
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceFallback:
		return "fallback"
	default:
		return "skip"
	}
}

// Result is the outcome of one prompt generation. Text is non-empty
// unless Source is SourceSkip.
type Result struct {
	Text   string
	Source Source
}

// TextModel abstracts the external text-generation call so tests can
// fake it
type TextModel interface {
	Generate(ctx context.Context, preamble, message, model string) (string, error)
}

var (
	numberingPrefix = regexp.MustCompile(`^\d+\.\s*`)
	promptPrefix    = regexp.MustCompile(`(?i)^Prompt:\s*`)
)

const preambleTemplate = `You are an expert AI assistant for creating prompts for a text-to-image generator.
Your task is to read a text segment and convert it into ONE descriptive visual prompt.
The prompt MUST incorporate the following visual style for consistency: '%s'.

IMPORTANT RULES:
- Output ONLY ONE prompt, no numbering or "Prompt:" prefix
- Keep the prompt under %d characters
- Focus on visual elements, not abstract concepts
- Make it descriptive and dramatic
- Ensure it's suitable for image generation`

// Generator converts one narration segment plus a style template into a
// visual-description prompt. It never fails outward: any model problem
// degrades to the deterministic fallback prompt.
type Generator struct {
	model TextModel
}

// NewGenerator builds a Generator around the given model. A nil model
// is valid and produces fallback prompts only.
func NewGenerator(model TextModel) *Generator {
	if model == nil {
		log.Println("Text model not configured; prompts will use fallback mode")
	}
	return &Generator{model: model}
}

// Generate produces the visual prompt for one segment. Empty segment or
// style yields SourceSkip; every other path returns usable text.
func (g *Generator) Generate(ctx context.Context, segment, style, model string) Result {
	segment = strings.TrimSpace(segment)
	if segment == "" || style == "" {
		return Result{Source: SourceSkip}
	}

	fallback := fmt.Sprintf("%s, %s", segment, style)

	if g.model == nil {
		return Result{Text: fallback, Source: SourceFallback}
	}

	preamble := fmt.Sprintf(preambleTemplate, style, config.MaxPromptChars)
	message := fmt.Sprintf("Text: '%s'\n\nCreate ONE highly descriptive and dramatic image prompt based on this text.", segment)

	raw, err := g.model.Generate(ctx, preamble, message, model)
	if err != nil {
		log.Printf("Text generation failed, using fallback prompt: %v", err)
		return Result{Text: fallback, Source: SourceFallback}
	}

	text := cleanReply(raw)
	if text == "" {
		log.Println("Text generation returned empty reply, using fallback prompt")
		return Result{Text: fallback, Source: SourceFallback}
	}

	return Result{Text: text, Source: SourceModel}
}

// cleanReply strips leading enumeration and "Prompt:" prefixes that
// models add despite instructions
func cleanReply(raw string) string {
	text := strings.TrimSpace(raw)
	text = numberingPrefix.ReplaceAllString(text, "")
	text = promptPrefix.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// CohereModel implements TextModel over the Cohere chat API
type CohereModel struct {
	client *cohereclient.Client
}

// NewCohereModel returns a chat-backed TextModel, or nil when apiKey is
// empty so the generator degrades to fallback mode instead of failing.
func NewCohereModel(apiKey string) *CohereModel {
	if apiKey == "" {
		return nil
	}

	// Force HTTP/1.1; the Cohere endpoint intermittently rejects
	// HTTP/2 connections with protocol errors
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}

	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereModel{client: client}
}

// Generate sends one chat turn and returns the raw reply text
func (m *CohereModel) Generate(ctx context.Context, preamble, message, model string) (string, error) {
	if model == "" {
		model = config.DefaultTextModel
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := m.client.Chat(ctx, &cohere.ChatRequest{
		Message:  message,
		Model:    &model,
		Preamble: &preamble,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("cohere chat returned empty response")
	}

	return resp.Text, nil
}
