package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	defaultRetryMax = 3
	defaultTimeout  = 30 * time.Second
)

// Webhook posts messages to a Discord compatible webhook url.
type Webhook struct {
	url      string
	username string
	client   *retryablehttp.Client
	logger   *slog.Logger
}

type WebhookOption func(*Webhook)

// WithRetryMax sets how many times a 429 or 5xx response is retried.
func WithRetryMax(n int) WebhookOption {
	return func(w *Webhook) {
		w.client.RetryMax = n
	}
}

// WithRetryWait bounds the wait between retries.
func WithRetryWait(min, max time.Duration) WebhookOption {
	return func(w *Webhook) {
		w.client.RetryWaitMin = min
		w.client.RetryWaitMax = max
	}
}

func NewWebhook(url, username string, logger *slog.Logger, opts ...WebhookOption) *Webhook {
	logger = logger.With("component", "webhook")

	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.HTTPClient.Timeout = defaultTimeout
	client.Logger = logger
	// hand the final response back so the status is reported to the caller
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	w := &Webhook{
		url:      url,
		username: username,
		client:   client,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *Webhook) Notify(ctx context.Context, msg Message) error {
	body, contentType, err := w.encode(msg)
	if err != nil {
		return errors.Wrap(err, "failed to encode webhook message")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, body)
	if err != nil {
		return errors.Wrap(err, "failed to build webhook request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrapf(ErrDelivery, "post failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(ErrDelivery, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	w.logger.Debug("webhook delivered", "status", resp.StatusCode, "title", msg.Title, "footer", msg.Footer)
	return nil
}

func (w *Webhook) encode(msg Message) ([]byte, string, error) {
	e := embed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.Color,
	}
	if msg.Footer != "" {
		e.Footer = &embedFooter{Text: msg.Footer}
	}
	if !msg.Timestamp.IsZero() {
		e.Timestamp = msg.Timestamp.UTC().Format(time.RFC3339)
	}
	if msg.Attachment != nil {
		e.Image = &embedImage{URL: "attachment://" + msg.Attachment.Filename}
	}

	payload, err := json.Marshal(webhookPayload{Username: w.username, Embeds: []embed{e}})
	if err != nil {
		return nil, "", err
	}

	if msg.Attachment == nil {
		return payload, "application/json", nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="payload_json"`)
	header.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, "", err
	}

	contentType := msg.Attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header = make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="files[0]"; filename="`+msg.Attachment.Filename+`"`)
	header.Set("Content-Type", contentType)
	part, err = mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(msg.Attachment.Data); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), mw.FormDataContentType(), nil
}
