// Package llm adapts a remote chat-completions service to the narrow
// synchronous Complete port used by the narrative layer.
package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	Backoff     time.Duration
	Temperature float32
}

// Observer receives one outcome per Complete call ("ok", "empty", "error",
// "offline").
type Observer interface {
	ObserveLLM(outcome string)
}

type Client struct {
	api    *openai.Client
	opts   Options
	logger internal.Logger
	obs    Observer
}

var errEmptyChoice = errors.New("llm: response has no content")

// New returns a client. When opts.APIKey is empty the client stays offline
// and every call returns "" so callers use their fallbacks.
func New(opts Options, logger internal.Logger, obs Observer) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.2
	}
	c := &Client{opts: opts, logger: logger, obs: obs}
	if opts.APIKey != "" {
		cfg := openai.DefaultConfig(opts.APIKey)
		if opts.BaseURL != "" {
			cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
		}
		cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}
		c.api = openai.NewClientWithConfig(cfg)
	}
	return c
}

func (c *Client) Online() bool { return c.api != nil }

// Complete sends prompt as a single user message. It never returns an
// error: any failure, including ctx expiry, yields "".
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) string {
	if c.api == nil || strings.TrimSpace(prompt) == "" {
		c.observe("offline")
		return ""
	}
	var out string
	err := c.retry(ctx, func(ctx context.Context) error {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.opts.Model,
			Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
			MaxTokens:   maxTokens,
			Temperature: c.opts.Temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errEmptyChoice
		}
		out = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	switch {
	case err != nil:
		c.logger.Warnf("llm: completion failed: %v", err)
		c.observe("error")
		return ""
	case out == "":
		c.observe("empty")
	default:
		c.observe("ok")
	}
	return out
}

func (c *Client) retry(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempts > c.opts.MaxRetries {
			return err
		}
		c.logger.Debugf("llm: attempt %d failed, retrying: %v", attempts, err)
		timer := time.NewTimer(c.opts.Backoff * time.Duration(attempts))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// retryable reports whether a failed call may succeed if repeated: transport
// errors, rate limiting and server errors. Other API errors are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return !errors.Is(err, errEmptyChoice)
}

func (c *Client) observe(outcome string) {
	if c.obs != nil {
		c.obs.ObserveLLM(outcome)
	}
}
