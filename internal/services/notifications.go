package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Notifier fans out booking lifecycle events to the sibling email service.
// Every call is fire-and-forget: failures are logged by the caller, never
// surfaced to the renter or owner.
type Notifier interface {
	SendCancellationEmail(ctx context.Context, cancellationRequestID uint) error
}

// EmailNotifier posts to the notification service configured via
// NOTIFICATION_SERVICE_URL.
type EmailNotifier struct {
	BaseURL    string
	AuthToken  string
	HTTPClient *http.Client
}

func NewEmailNotifier() *EmailNotifier {
	return &EmailNotifier{
		BaseURL:    os.Getenv("NOTIFICATION_SERVICE_URL"),
		AuthToken:  os.Getenv("NOTIFICATION_SERVICE_TOKEN"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *EmailNotifier) SendCancellationEmail(ctx context.Context, cancellationRequestID uint) error {
	if n.BaseURL == "" {
		return fmt.Errorf("notification service not configured")
	}

	payload := map[string]interface{}{
		"cancellationRequestId": cancellationRequestID,
		"type":                  "completed",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.BaseURL+"/send-cancellation-email", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.AuthToken)
	}

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}
	return nil
}
