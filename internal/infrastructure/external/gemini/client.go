// Package gemini talks to the Gemini generative model for coaching replies,
// support messages and structured practice analysis.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
	"github.com/brayner/brayner/internal/domain/shared"
	"github.com/brayner/brayner/pkg/circuitbreaker"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

const (
	chatInstruction = "You are Professor Brayner, an elite academic mentor for Bangladeshi SSC and HSC students. " +
		"Respond formally in the detected language. Focus on syllabus mastery, study discipline, and exams."

	supportInstruction = "You are BRAYNER, a serious but caring academic companion for Bangladeshi SSC/HSC students. " +
		"Your tone is supportive, calm, and structured. Avoid exclamation marks and dramatic language."

	supportPrompt = "Give me a short, calm, and supportive message for a student struggling with discipline. " +
		"Maximum 2 sentences. No hype, just grounded support."
)

// ClientConfig contains configuration for the Gemini client.
type ClientConfig struct {
	APIKey string

	// ChatModel answers chat turns and support messages.
	ChatModel string

	// AnalysisModel produces the structured weakness analysis.
	AnalysisModel string

	// Timeout bounds a single model request.
	Timeout time.Duration

	// MaxAttempts counts the first request too.
	MaxAttempts int

	RateLimiterConfig RateLimiterConfig

	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:            apiKey,
		ChatModel:         "gemini-2.5-flash",
		AnalysisModel:     "gemini-2.5-pro",
		Timeout:           30 * time.Second,
		MaxAttempts:       3,
		RateLimiterConfig: DefaultRateLimiterConfig(),
	}
}

// generator is the part of the genai SDK the client calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Gemini API client.
type Client struct {
	config  ClientConfig
	models  generator
	log     *logger.Logger
	limiter *RateLimiter
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a new Gemini client. An empty API key is rejected with
// shared.ErrCoachDisabled.
func NewClient(ctx context.Context, config ClientConfig) (*Client, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, shared.ErrCoachDisabled
	}
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newClient(sdk.Models, config), nil
}

func newClient(models generator, config ClientConfig) *Client {
	defaults := DefaultClientConfig(config.APIKey)
	if config.ChatModel == "" {
		config.ChatModel = defaults.ChatModel
	}
	if config.AnalysisModel == "" {
		config.AnalysisModel = defaults.AnalysisModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.Logger == nil {
		config.Logger = logger.NewNop()
	}
	log := config.Logger.With(logger.Component("gemini"))

	return &Client{
		config:  config,
		models:  models,
		log:     log,
		limiter: NewRateLimiter(config.RateLimiterConfig),
		retrier: retry.ModelRetrier(config.MaxAttempts),
		breaker: circuitbreaker.CoachBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Chat answers the last user turn of history, sending the whole history.
func (c *Client) Chat(ctx context.Context, history []document.ChatMessage) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == document.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text(), role))
	}

	return c.generate(ctx, "Chat", c.config.ChatModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.6),
	})
}

// SupportMessage returns a short calm message for a struggling student.
func (c *Client) SupportMessage(ctx context.Context) (string, error) {
	return c.generate(ctx, "SupportMessage", c.config.ChatModel,
		[]*genai.Content{genai.NewContentFromText(supportPrompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(supportInstruction, genai.RoleUser),
		},
	)
}

// AnalyzeWeakness asks for one focus area given a practice summary.
func (c *Client) AnalyzeWeakness(ctx context.Context, subject, summary string) (progress.WeaknessAnalysis, error) {
	prompt := fmt.Sprintf("Analyze this student performance in %s: %s. Suggest one specific focus area.", subject, summary)

	text, err := c.generate(ctx, "AnalyzeWeakness", c.config.AnalysisModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   weaknessSchema(),
		},
	)
	if err != nil {
		return progress.WeaknessAnalysis{}, err
	}

	var out progress.WeaknessAnalysis
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return progress.WeaknessAnalysis{}, shared.ErrCoachBadResponse.Wrap(err)
	}
	if err := out.Validate(); err != nil {
		return progress.WeaknessAnalysis{}, shared.ErrCoachBadResponse.Wrap(err)
	}
	return out, nil
}

func weaknessSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"weaknessType": {
				Type:        genai.TypeString,
				Description: "One of: " + strings.Join([]string{progress.WeaknessConcept, progress.WeaknessFormula, progress.WeaknessSpeed}, ", "),
			},
			"suggestion": {Type: genai.TypeString},
			"priority":   {Type: genai.TypeString, Description: "High, Medium, Low"},
		},
		Required: []string{"weaknessType", "suggestion", "priority"},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSPORT
// ══════════════════════════════════════════════════════════════════════════════

// generate runs one model request through the circuit breaker, retrying
// transient failures, and returns the trimmed reply text.
func (c *Client) generate(ctx context.Context, op, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	var text string

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			if err := c.limiter.Allow(ctx); err != nil {
				return err
			}

			reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
			defer cancel()

			resp, err := c.models.GenerateContent(reqCtx, model, contents, cfg)
			if err != nil {
				return c.classify(err)
			}
			text = strings.TrimSpace(resp.Text())
			if text == "" {
				return shared.ErrCoachBadResponse
			}
			return nil
		})
	})

	latency := time.Since(start)
	if err != nil {
		c.log.Warn("model request failed",
			logger.Operation(op),
			logger.String("model", model),
			logger.Latency(latency),
			logger.Err(err),
		)
		if circuitbreaker.IsRejection(err) {
			return "", shared.ErrCoachUnavailable.Wrap(err)
		}
		return "", err
	}

	c.log.Debug("model request", logger.Operation(op), logger.String("model", model), logger.Latency(latency))
	return text, nil
}

// classify marks quota, server and timeout errors as retryable.
func (c *Client) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			c.limiter.RecordRateLimitHit()
			return retry.Retryable(err)
		case 500, 502, 503, 504:
			return retry.Retryable(err)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return retry.Retryable(err)
	}
	return err
}

// BreakerState reports the circuit breaker position.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}
