// Package sink delivers formatted report text to messaging destinations.
// Delivery is fire-and-forget: a failed send is logged and never retried.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"valeod/internal/providers"
	"valeod/internal/structures"
)

type Sink interface {
	Send(ctx context.Context, destinationID, text string) error
}

type TelegramSink struct {
	sendURL string
	client  *http.Client
	logger  providers.Logger
}

func NewTelegramSink(conf *structures.Config, logger providers.Logger) Sink {
	return &TelegramSink{
		sendURL: fmt.Sprintf("%s/bot%s/sendMessage", conf.Telegram.BaseURL, conf.Telegram.Token),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (ts *TelegramSink) Send(ctx context.Context, destinationID, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    destinationID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.sendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send to %s failed: %w", destinationID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram send to %s returned status %d", destinationID, resp.StatusCode)
	}
	return nil
}
