package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/imaadfakier/spicychatdotai-scraper/record"
)

// EventRecordCompleted is sent once a run has written its record.
const EventRecordCompleted = "record.completed"

// SignatureHeader carries the HMAC-SHA256 of the body as "sha256=<hex>".
const SignatureHeader = "X-Spicyscrape-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string         `json:"type"`
	RunID     string         `json:"run_id"`
	Timestamp int64          `json:"timestamp"`
	Failed    []string       `json:"failed"`
	Data      *record.Record `json:"data"`
}

// RecordCompleted builds the event announcing a finished run.
func RecordCompleted(run *record.Run) *Event {
	failed := run.Failed
	if failed == nil {
		failed = []string{}
	}
	return &Event{
		Type:      EventRecordCompleted,
		RunID:     run.ID,
		Timestamp: run.FinishedAt.Unix(),
		Failed:    failed,
		Data:      run.Record,
	}
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Deliver sends a webhook event synchronously, once.
// The request body is signed with HMAC-SHA256 if secret is non-empty.
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}
	body := buf.Bytes()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Spicyscrape-Webhook/1.0")

	if secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(secret, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}

	slog.Info("webhook delivered",
		"url", url,
		"event", event.Type,
		"run_id", event.RunID,
	)
	return nil
}
