package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/config"
	"github.com/school-news-site/internal/metrics"
)

// Notifier announces the current publishing code to a webhook
type Notifier interface {
	// Notify delivers code in the background. Failures are logged, never returned.
	Notify(url string, code uint32)
	// Send delivers code and waits for the endpoint to answer
	Send(ctx context.Context, url string, code uint32) error
	// Wait blocks until background deliveries have finished
	Wait()
}

// Message is a Discord-compatible webhook body
type Message struct {
	Content  string  `json:"content"`
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

// Embed is a single rich block of a Message
type Embed struct {
	Title string `json:"title"`
}

// CodeMessage builds the announcement for code
func CodeMessage(username string, code uint32) Message {
	return Message{
		Content:  fmt.Sprintf("current publishing code: %d", code),
		Username: username,
		Embeds:   []Embed{{Title: fmt.Sprintf("Publishing Code: `%d`", code)}},
	}
}

// Webhook posts codes over HTTP
type Webhook struct {
	client   *http.Client
	username string
	timeout  time.Duration
	log      zerolog.Logger
	wg       sync.WaitGroup
}

var _ Notifier = (*Webhook)(nil)

// NewWebhook creates a webhook notifier
func NewWebhook(cfg config.WebhookConfig, log zerolog.Logger) *Webhook {
	return &Webhook{
		client:   &http.Client{Timeout: cfg.Timeout},
		username: cfg.Username,
		timeout:  cfg.Timeout,
		log:      log.With().Str("component", "notifier").Logger(),
	}
}

// Notify implements Notifier
func (w *Webhook) Notify(url string, code uint32) {
	if url == "" {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		w.log.Warn().Msg("No webhook configured, publishing code not delivered")
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// detached from the request: the response must not wait on delivery
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		start := time.Now()
		err := w.Send(ctx, url, code)
		metrics.NotificationDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.NotificationsTotal.WithLabelValues(metrics.ResultError).Inc()
			w.log.Error().Err(err).Msg("Failed to deliver publishing code")
			return
		}
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		w.log.Info().Dur("duration", time.Since(start)).Msg("Publishing code delivered")
	}()
}

// Send implements Notifier
func (w *Webhook) Send(ctx context.Context, url string, code uint32) error {
	if url == "" {
		return fmt.Errorf("no webhook url configured")
	}

	body, err := json.Marshal(CodeMessage(w.username, code))
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status: %d", resp.StatusCode)
	}
	return nil
}

// Wait implements Notifier
func (w *Webhook) Wait() {
	w.wg.Wait()
}
