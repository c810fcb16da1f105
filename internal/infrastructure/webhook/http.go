package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rolodexhq/rolodex/internal/application/ports"
)

// HTTPEmitter POSTs audit events as JSON to a configured endpoint. Intended
// for feeding auth events (signup, login, refresh) into an external SIEM or
// alerting hook; delivery is best-effort and failures are the caller's to log.
type HTTPEmitter struct {
	client *http.Client
	url    string
	secret string
}

// NewHTTPEmitter returns a WebhookEmitter for url. secret, when non-empty, is
// sent as the X-Webhook-Secret header so the receiver can authenticate us.
func NewHTTPEmitter(url, secret string) *HTTPEmitter {
	return &HTTPEmitter{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}
}

// Emit implements ports.WebhookEmitter.
func (e *HTTPEmitter) Emit(ctx context.Context, event ports.AuditEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.secret != "" {
		req.Header.Set("X-Webhook-Secret", e.secret)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

var _ ports.WebhookEmitter = (*HTTPEmitter)(nil)
