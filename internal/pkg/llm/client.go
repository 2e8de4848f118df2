// Package llm is the single gateway to Gemini. Every call is rate limited,
// traced, timed, and retried on transient upstream errors.
package llm

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"strings"
	"time"

	generativeAI "github.com/FACorreiaa/go-genai-sdk/lib"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-wander/internal/app/models"
	"github.com/FACorreiaa/go-wander/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-wander/internal/pkg/config"
)

const defaultSystemInstruction = "You are a helpful travel assistant."

// Generator is what the domain services need from a language model.
type Generator interface {
	// GenerateJSON asks for a response matching schema and decodes it into out.
	GenerateJSON(ctx context.Context, task, prompt string, schema *genai.Schema, out any) error
	// Chat sends one free-form message and returns the text reply.
	Chat(ctx context.Context, message string) (string, error)
}

// responder is the slice of the Gemini SDK the client calls.
type responder interface {
	GenerateResponse(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	ai          responder
	limiter     *rate.Limiter
	temperature float32
	maxRetries  uint64
	logger      *zap.Logger
	tracer      trace.Tracer
}

var _ Generator = (*Client)(nil)

// NewClient builds a Gemini backed client. A missing API key is reported as
// models.ErrUnavailable instead of letting the SDK exit the process.
func NewClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(models.ErrUnavailable, "GEMINI_API_KEY is not set")
	}
	// The SDK reads its model name from the -model flag.
	if f := flag.Lookup("model"); f != nil && cfg.Model != "" {
		if err := flag.Set("model", cfg.Model); err != nil {
			return nil, errors.Wrap(err, "set gemini model")
		}
	}

	ai, err := generativeAI.NewLLMChatClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	logger.Info("Gemini client ready",
		zap.String("model", ai.ModelName),
		zap.Float64("rps", cfg.RequestsPerSecond))

	return newClient(ai, cfg, logger), nil
}

func newClient(ai responder, cfg config.GeminiConfig, logger *zap.Logger) *Client {
	burst := max(cfg.Burst, 1)
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		ai:          ai,
		limiter:     rate.NewLimiter(limit, burst),
		temperature: cfg.Temperature,
		maxRetries:  2,
		logger:      logger,
		tracer:      otel.Tracer("wander/llm"),
	}
}

func (c *Client) GenerateJSON(ctx context.Context, task, prompt string, schema *genai.Schema, out any) error {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	text, err := c.generate(ctx, task, prompt, cfg)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), out); err != nil {
		c.logger.Warn("Model returned invalid JSON",
			zap.String("task", task),
			zap.Int("response_length", len(text)),
			zap.Error(err))
		return errors.Wrapf(models.ErrUpstream, "decode %s response: %v", task, err)
	}
	return nil
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.temperature),
		SystemInstruction: genai.NewContentFromText(defaultSystemInstruction, genai.RoleUser),
	}
	return c.generate(ctx, "chat", message, cfg)
}

func (c *Client) generate(ctx context.Context, task, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	ctx, span := c.tracer.Start(ctx, "llm."+task, trace.WithAttributes(
		attribute.String("llm.task", task),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	l := c.logger.With(zap.String("method", "generate"), zap.String("task", task))
	start := time.Now()
	attrs := metric.WithAttributes(attribute.String("task", task))

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rate limiter")
		metrics.Get().AIRequestErrorsTotal.Add(ctx, 1, attrs)
		return "", classify(err)
	}

	var text string
	operation := func() error {
		resp, err := c.ai.GenerateResponse(ctx, prompt, cfg)
		if err != nil {
			if retryable(err) {
				l.Warn("Transient AI error, retrying", zap.Error(err))
				return err
			}
			return backoff.Permanent(err)
		}
		if resp == nil {
			return backoff.Permanent(errors.Wrap(models.ErrUpstream, "empty response"))
		}
		text = strings.TrimSpace(resp.Text())
		if text == "" {
			return backoff.Permanent(errors.Wrap(models.ErrUpstream, "no content generated"))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))

	metrics.Get().AIRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		metrics.Get().AIRequestErrorsTotal.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		l.Error("AI generation failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", classify(err)
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "generated")
	l.Debug("AI generation succeeded",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_length", len(text)))
	return text, nil
}

func retryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

// classify maps an upstream failure onto the domain sentinels.
func classify(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}

	switch {
	case errors.Is(err, models.ErrUpstream), errors.Is(err, models.ErrUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(models.ErrTimeout, err.Error())
	case errors.Is(err, context.Canceled):
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return errors.Wrap(models.ErrRateLimited, apiErr.Message)
		case apiErr.Code == http.StatusGatewayTimeout || apiErr.Code == http.StatusRequestTimeout:
			return errors.Wrap(models.ErrTimeout, apiErr.Message)
		case apiErr.Code >= http.StatusInternalServerError:
			return errors.Wrap(models.ErrUnavailable, apiErr.Message)
		}
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return errors.Wrap(models.ErrTimeout, err.Error())
	}
	return errors.Wrap(models.ErrUpstream, err.Error())
}

func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return response
	}
	closer := byte('}')
	if response[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(response, closer)
	if end <= start {
		return response
	}
	return response[start : end+1]
}
