package orchestrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forgeseal/client-go/internal/config"
)

const telegramAPI = "https://api.telegram.org"

// Alerter delivers operator notifications to the sinks enabled in an
// AlertConfig.
type Alerter struct {
	cfg        *config.AlertConfig
	httpClient *http.Client

	// telegramBase is overridable for tests.
	telegramBase string
}

// NewAlerter builds an Alerter for the given sink config.
func NewAlerter(cfg *config.AlertConfig) *Alerter {
	return &Alerter{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		telegramBase: telegramAPI,
	}
}

// Send posts message to every configured sink. The first delivery
// failure is returned, but remaining sinks are still attempted.
func (a *Alerter) Send(ctx context.Context, message string) error {
	var firstErr error

	if a.cfg.Telegram() {
		if err := a.sendTelegram(ctx, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.cfg.Discord() {
		if err := a.sendDiscord(ctx, message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *Alerter) sendTelegram(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", a.telegramBase, a.cfg.TelegramBotToken)
	payload := map[string]string{
		"chat_id": a.cfg.TelegramChatID,
		"text":    message,
	}
	return a.post(ctx, url, payload)
}

func (a *Alerter) sendDiscord(ctx context.Context, message string) error {
	payload := map[string]string{"content": message}
	return a.post(ctx, a.cfg.DiscordWebhook, payload)
}

func (a *Alerter) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("alert sink responded %d", resp.StatusCode)
	}
	return nil
}
