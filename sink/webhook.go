package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/intakeflow/intakeflow/types"
)

// Webhook POSTs each submission as JSON to a remote endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Save(ctx context.Context, fields map[string]*types.CollectedValue, meta Metadata) (string, error) {
	payload, err := sonic.Marshal(jsonSubmission{
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      fields,
		Metadata:  meta,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return fmt.Sprintf("sent to %s (status %d)", w.url, resp.StatusCode), nil
}

var _ Sink = (*Webhook)(nil)
