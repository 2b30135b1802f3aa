// Package forwarder posts completed onboarding submissions to the backend API.
package forwarder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"onboardapi/internal/config"
	"onboardapi/internal/model"
)

// ErrRejected is returned when the backend answers with a non-2xx status.
var ErrRejected = errors.New("forwarder: backend rejected submission")

const (
	defaultTimeout = 15 * time.Second
	maxRetries     = 2
	retryBase      = 200 * time.Millisecond
)

// Payload is the JSON body sent to the backend API.
type Payload struct {
	SubmissionID    string               `json:"submissionId"`
	CompanyName     string               `json:"companyName"`
	CompanyFolderID string               `json:"companyFolderId"`
	FormData        json.RawMessage      `json:"formData"`
	UploadedFiles   []model.UploadedFile `json:"uploadedFiles"`
	SubmittedAt     time.Time            `json:"submittedAt"`
}

// HTTPForwarder sends payloads with a bearer API key. The zero URL disables it.
type HTTPForwarder struct {
	url     string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
	backoff func() retry.Backoff
}

// New builds a forwarder from cfg. log may be nil.
func New(cfg config.ForwarderConfig, log *zap.Logger) *HTTPForwarder {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := defaultTimeout
	if cfg.TimeoutSec > 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	return &HTTPForwarder{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log.With(zap.String("component", "forwarder")),
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(maxRetries, retry.NewExponential(retryBase))
		},
	}
}

// Enabled reports whether a backend URL is configured.
func (f *HTTPForwarder) Enabled() bool { return f != nil && f.url != "" }

// Forward posts p to the backend. Network errors and 5xx answers are retried a
// couple of times; 4xx answers are returned immediately.
func (f *HTTPForwarder) Forward(ctx context.Context, requestID string, p Payload) error {
	if !f.Enabled() {
		return nil
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	start := time.Now()
	attempts := 0
	err = retry.Do(ctx, f.backoff(), func(ctx context.Context) error {
		attempts++
		return f.post(ctx, requestID, body)
	})

	fields := []zap.Field{
		zap.String("event", "submission_forwarded"),
		zap.String("request_id", requestID),
		zap.String("submission_id", p.SubmissionID),
		zap.Int("attempts", attempts),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	if err != nil {
		f.log.Warn("forward failed", append(fields, zap.String("status", "error"), zap.Error(err))...)
		return err
	}
	f.log.Info("forwarded", append(fields, zap.String("status", "success"))...)
	return nil
}

func (f *HTTPForwarder) post(ctx context.Context, requestID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("post submission: %w", err))
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(msg)))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, bytes.TrimSpace(msg))
	}
}
