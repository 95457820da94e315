package humanize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zhouzirui/exonizer/internal/config"
	"github.com/zhouzirui/exonizer/internal/logging"
	"github.com/zhouzirui/exonizer/internal/model/humanize"
)

// Humanizer performs one humanize call. Implemented by *Client and faked in
// tests of the callers.
type Humanizer interface {
	Humanize(ctx context.Context, text string) humanize.Result
}

// Recorder observes resolved calls, e.g. for metrics.
type Recorder interface {
	ObserveHumanize(kind humanize.Kind, elapsed time.Duration)
}

// Client posts text to the remote humanize endpoint.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	recorder   Recorder
	log        *logrus.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRecorder attaches a Recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger replaces the process logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a client for the configured endpoint. The request carries
// no timeout of its own; it ends with the exchange or with ctx.
func NewClient(cfg config.HumanizeConfig, opts ...Option) *Client {
	c := &Client{
		url:        cfg.URL(),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
		log:        logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Humanize sends text and classifies the outcome.
func (c *Client) Humanize(ctx context.Context, text string) humanize.Result {
	start := time.Now()
	result := c.do(ctx, text)

	entry := c.log.WithFields(logrus.Fields{
		"outcome": result.Kind.String(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	})
	switch result.Kind {
	case humanize.Success:
		entry.WithField("length", len(result.Text)).Debug("[humanize] request succeeded")
	case humanize.HTTPError:
		entry.WithField("status", result.StatusCode).Warn("[humanize] upstream rejected request")
	case humanize.TransportError:
		entry.WithError(result.Err).Error("[humanize] request failed")
	}

	if c.recorder != nil {
		c.recorder.ObserveHumanize(result.Kind, time.Since(start))
	}
	return result
}

func (c *Client) do(ctx context.Context, text string) humanize.Result {
	payload, err := json.Marshal(humanize.Request{Text: text})
	if err != nil {
		return humanize.Unreachable(fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return humanize.Unreachable(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return humanize.Unreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return humanize.Failed(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return humanize.Unreachable(fmt.Errorf("read response: %w", err))
	}
	text, err = humanize.ParseText(data)
	if err != nil {
		// A malformed success body surfaces like an incomplete request.
		return humanize.Unreachable(fmt.Errorf("decode response: %w", err))
	}
	return humanize.Succeeded(text)
}
