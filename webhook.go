package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// WebhookPayload is the body posted to an upload's webhook URL.
type WebhookPayload struct {
	Event     string  `json:"event"` // always "upload_video"
	FileName  string  `json:"file_name"`
	KalturaID *string `json:"kalturaId"`
	URL       string  `json:"url,omitempty"`
	Message   string  `json:"message"`
	Timestamp int64   `json:"timestamp"`
}

// WebhookSender posts upload outcomes to caller-supplied URLs.
type WebhookSender struct {
	client  *http.Client
	timeout time.Duration
}

// NewWebhookSender creates a webhook sender.
func NewWebhookSender() *WebhookSender {
	return &WebhookSender{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		timeout: 10 * time.Second,
	}
}

// SendAsync posts the outcome without blocking the workflow. Failures
// are logged and never affect the upload result.
func (w *WebhookSender) SendAsync(webhookURL, fileName string, result *UploadVideoResult) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("webhook panic: %v", r)
			}
		}()

		if err := w.send(webhookURL, fileName, result); err != nil {
			logrus.Errorf("webhook delivery failed [%s]: %v", webhookURL, err)
		} else {
			logrus.Infof("webhook delivered [%s]", webhookURL)
		}
	}()
}

func (w *WebhookSender) send(webhookURL, fileName string, result *UploadVideoResult) error {
	if err := w.validateURL(webhookURL); err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}

	payload := WebhookPayload{
		Event:     "upload_video",
		FileName:  fileName,
		KalturaID: result.KalturaID,
		URL:       result.URL,
		Message:   result.Message,
		Timestamp: time.Now().Unix(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "kaltura-mcp-webhook/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook answered status %d", resp.StatusCode)
	}

	return nil
}

// validateURL checks that the webhook target is a plausible http(s) URL.
func (w *WebhookSender) validateURL(webhookURL string) error {
	if webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http and https are supported")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}
