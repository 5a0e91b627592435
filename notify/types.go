package notify

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrDelivery is returned when the webhook rejects or never receives a message.
var ErrDelivery = errors.New("webhook delivery failed")

// Attachment is a file sent with a message, referenced by the embed image.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one embed posted to the webhook.
type Message struct {
	Title       string
	Description string
	Color       int
	Footer      string
	Timestamp   time.Time
	Attachment  *Attachment
}

// Notifier delivers messages to an external channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type webhookPayload struct {
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Footer      *embedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Image       *embedImage  `json:"image,omitempty"`
}

type embedFooter struct {
	Text string `json:"text"`
}

type embedImage struct {
	URL string `json:"url"`
}
