// Package monitor sends telemetry pings to Cronitor.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"login-probe/internal/entity"
)

// ErrMissingAPIKey is returned by Ping when no API key is configured.
var ErrMissingAPIKey = errors.New("no Cronitor API key configured")

// Config represents client configuration
type Config struct {
	BaseURL     string
	APIKey      string
	MonitorKey  string
	Environment string
	Host        string
	Timeout     time.Duration
	RetryCount  int
}

// Client pings one Cronitor monitor.
type Client struct {
	httpClient *resty.Client
	cfg        Config
	series     string
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a new Cronitor telemetry client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://cronitor.link"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Host == "" {
		cfg.Host, _ = os.Hostname()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("User-Agent", "login-probe/1.0")

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// WithSeries returns a copy of the client that tags every ping with series.
func (c *Client) WithSeries(series string) *Client {
	cp := *c
	cp.series = series
	return &cp
}

// Ping sends one telemetry event.
func (c *Client) Ping(ctx context.Context, ev entity.PingEvent) error {
	if c.cfg.APIKey == "" {
		c.logger.Error("No API key detected, ping skipped",
			zap.String("monitor", c.cfg.MonitorKey),
			zap.String("message", ev.Message))
		return ErrMissingAPIKey
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"apiKey":  c.cfg.APIKey,
			"monitor": c.cfg.MonitorKey,
		}).
		SetQueryParamsFromValues(c.query(ev)).
		Get("/p/{apiKey}/{monitor}")
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.cfg.MonitorKey, err)
	}
	if resp.IsError() {
		return fmt.Errorf("ping %s: unexpected status %d", c.cfg.MonitorKey, resp.StatusCode())
	}

	c.logger.Debug("monitor ping sent",
		zap.String("monitor", c.cfg.MonitorKey),
		zap.String("state", ev.State),
		zap.String("message", ev.Message))
	return nil
}

func (c *Client) query(ev entity.PingEvent) url.Values {
	q := url.Values{}
	if ev.State != "" {
		q.Set("state", ev.State)
	}
	if ev.Message != "" {
		q.Set("message", ev.Message)
	}
	if c.series != "" {
		q.Set("series", c.series)
	}
	if c.cfg.Host != "" {
		q.Set("host", c.cfg.Host)
	}
	if c.cfg.Environment != "" {
		q.Set("env", c.cfg.Environment)
	}
	if ev.Metrics != nil {
		for _, m := range ev.Metrics.Pairs() {
			q.Add("metric", m)
		}
	}
	q.Set("stamp", strconv.FormatInt(c.now().Unix(), 10))
	return q
}
