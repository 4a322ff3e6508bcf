package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	perr "leadpush/internal/platform/errors"
	"leadpush/internal/platform/logger"
	dom "leadpush/internal/services/push/domain"
)

const (
	baseURLDefault   = "https://services.leadconnectorhq.com"
	apiVersionHeader = "2021-07-28"
	defaultTimeout   = 30 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond

	// maxRetryAfterWait caps how long a single 429 hint can pause us
	maxRetryAfterWait = 120 * time.Second
)

// SenderConfig configures the CRM client
type SenderConfig struct {
	BaseURL string
	Token   string
	Version string
	Timeout time.Duration

	// Retry config for transient server errors. 429 waits are governed by
	// Retry-After and do not consume retries
	MaxRetries int
	RetryBase  time.Duration
}

// Sender is a rate-limited CRM contacts client with asymmetric retry:
// 429 waits out the Retry-After hint without burning an attempt, 5xx retries
// a bounded number of times with exponential backoff
type Sender struct {
	http    *http.Client
	cfg     SenderConfig
	limiter *Limiter
	backoff *SharedBackoff
	log     logger.Logger
	now     func() time.Time
	sleep   func(time.Duration)
}

// Compile-time assertion: Sender implements domain.SenderPort
var _ dom.SenderPort = (*Sender)(nil)

// NewSender creates a Sender with sane defaults
func NewSender(cfg SenderConfig, limiter *Limiter, backoff *SharedBackoff) *Sender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLDefault
	}
	if cfg.Version == "" {
		cfg.Version = apiVersionHeader
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetry
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaultRetryBase
	}
	return &Sender{
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: limiter,
		backoff: backoff,
		log:     *logger.Named("sender"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// Send implements domain.SenderPort
func (c *Sender) Send(ctx context.Context, payload dom.ContactPayload, deadline time.Time) dom.SendResult {
	attempt := 0
	for {
		if !deadline.IsZero() && !c.now().Before(deadline) {
			return dom.SendResult{Status: perr.StatusDeadline, Body: "deadline_exceeded"}
		}
		r := c.post(ctx, payload, deadline)
		if r.OK {
			return r
		}
		if r.Status != http.StatusTooManyRequests && !(r.Status >= 500 && r.Status <= 599) {
			return r
		}

		// 429: honor Retry-After dynamically; a hinted wait is global and does
		// not consume a retry attempt
		if r.Status == http.StatusTooManyRequests {
			wait := scaleRetryAfter(r.RetryAfter)
			if wait > 0 {
				c.backoff.Set(wait)
				c.log.Warn().Dur("wait", wait).Msg("crm rate limited backing off")
				sleepFor := wait
				if !deadline.IsZero() {
					remaining := deadline.Sub(c.now())
					if remaining <= 0 {
						return dom.SendResult{Status: perr.StatusDeadline, Body: "deadline_exceeded"}
					}
					if remaining < sleepFor {
						sleepFor = remaining
					}
				}
				c.sleep(sleepFor)
				continue
			}
		}

		attempt++
		if attempt >= c.cfg.MaxRetries {
			return r
		}
		delay := c.cfg.RetryBase << uint(attempt-1)
		c.log.Warn().Int("status", r.Status).Dur("retry_in", delay).Int("attempt", attempt).Msg("crm send retrying")
		sleepFor := delay
		if !deadline.IsZero() {
			remaining := deadline.Sub(c.now())
			if remaining <= 0 {
				return dom.SendResult{Status: perr.StatusDeadline, Body: "deadline_exceeded"}
			}
			if remaining < sleepFor {
				sleepFor = remaining
			}
		}
		c.sleep(sleepFor)
	}
}

// post issues one rate-limited POST /contacts/ call
func (c *Sender) post(ctx context.Context, payload dom.ContactPayload, deadline time.Time) dom.SendResult {
	if !c.limiter.Wait(ctx, deadline) {
		return dom.SendResult{Status: perr.StatusDeadline, Body: "deadline_exceeded_before_send"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return dom.SendResult{Status: http.StatusInternalServerError, Body: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/contacts/", bytes.NewReader(body))
	if err != nil {
		return dom.SendResult{Status: http.StatusInternalServerError, Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Version", c.cfg.Version)
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		// transport failures retry on the bounded 5xx path
		return dom.SendResult{Status: http.StatusInternalServerError, Body: err.Error()}
	}
	text, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"), c.now())

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Dur("retry_after", retryAfter).
		Msg("crm http response")

	return dom.SendResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:     resp.StatusCode,
		Body:       string(text),
		RetryAfter: retryAfter,
	}
}

// parseRetryAfter accepts integer/decimal seconds or an HTTP date.
// Malformed or past values yield zero
func parseRetryAfter(v string, now time.Time) time.Duration {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil && secs >= 0 {
		return time.Duration(secs*1000) * time.Millisecond
	}
	if at, err := http.ParseTime(s); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// scaleRetryAfter pads the server hint by 10% to stay slightly below target,
// capped at maxRetryAfterWait
func scaleRetryAfter(hint time.Duration) time.Duration {
	if hint <= 0 {
		return 0
	}
	ms := hint.Milliseconds() * 11 / 10
	scaled := time.Duration(ms) * time.Millisecond
	if scaled > maxRetryAfterWait {
		return maxRetryAfterWait
	}
	return scaled
}
