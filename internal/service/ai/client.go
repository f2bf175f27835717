package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ecosort/ecosort-backend/internal/prompt"
	"github.com/ecosort/ecosort-backend/internal/util"
	apperrors "github.com/ecosort/ecosort-backend/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Client wraps the Gemini API for the two operations the pipeline needs:
// image classification and short text generation. A client constructed
// without an API key performs no network calls and reports a configuration
// error from every method.
type Client struct {
	gemini          *genai.Client
	model           string
	logger          *zap.Logger
	classifyTimeout time.Duration
	askTimeout      time.Duration
}

type ClientConfig struct {
	APIKey          string
	Model           string
	ClassifyTimeout time.Duration
	AskTimeout      time.Duration
}

func NewClient(ctx context.Context, cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	classifyTimeout := cfg.ClassifyTimeout
	if classifyTimeout <= 0 {
		classifyTimeout = 30 * time.Second
	}
	askTimeout := cfg.AskTimeout
	if askTimeout <= 0 {
		askTimeout = 15 * time.Second
	}

	c := &Client{
		model:           model,
		logger:          logger,
		classifyTimeout: classifyTimeout,
		askTimeout:      askTimeout,
	}

	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, waste detection will report a configuration error")
		return c, nil
	}

	gemini, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.gemini = gemini

	logger.Info("Gemini client initialized", zap.String("model", model))
	return c, nil
}

// ClassifyImage sends the uploaded photo with the detection prompt and
// returns the model's raw text output. The caller owns parsing and retry.
func (c *Client) ClassifyImage(ctx context.Context, image []byte) (string, error) {
	if c.gemini == nil {
		return "", apperrors.NewConfigurationError("Gemini API key is not configured on the server")
	}

	ctx, cancel := context.WithTimeout(ctx, c.classifyTimeout)
	defer cancel()

	temperature := float32(0.1)
	topP := float32(1)
	topK := float32(1)

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt.DetectionPrompt},
				{InlineData: &genai.Blob{
					MIMEType: detectImageMIME(image),
					Data:     image,
				}},
			},
		},
	}

	resp, err := c.gemini.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: 2048,
	})
	if err != nil {
		classified := classifyUpstreamError(err)
		c.logger.Warn("Image classification call failed",
			zap.String("code", apperrors.CodeOf(classified)),
			zap.Error(err),
		)
		return "", classified
	}

	text := extractText(resp)
	if text == "" {
		return "", apperrors.NewUpstreamError("no candidates in model response", 502, nil)
	}

	c.logger.Debug("Classification response received",
		zap.Int("length", len(text)),
		zap.String("preview", util.TruncateString(text, 200)),
	)
	return text, nil
}

// Ask sends a short text-only prompt, used by the per-item enrichment calls.
// Not retried: enrichment failures degrade to static fallbacks.
func (c *Client) Ask(ctx context.Context, promptText string) (string, error) {
	if c.gemini == nil {
		return "", apperrors.NewConfigurationError("Gemini API key is not configured on the server")
	}

	ctx, cancel := context.WithTimeout(ctx, c.askTimeout)
	defer cancel()

	temperature := float32(0.2)

	resp, err := c.gemini.Models.GenerateContent(ctx, c.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: promptText}}},
	}, &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	})
	if err != nil {
		classified := classifyUpstreamError(err)
		c.logger.Warn("Enrichment call failed",
			zap.String("code", apperrors.CodeOf(classified)),
			zap.Error(err),
		)
		return "", classified
	}

	text := extractText(resp)
	if text == "" {
		return "", apperrors.NewUpstreamError("no candidates in model response", 502, nil)
	}

	return text, nil
}

func detectImageMIME(image []byte) string {
	mime := http.DetectContentType(image)
	switch mime {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return mime
	default:
		return "image/jpeg"
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	text := ""
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}
