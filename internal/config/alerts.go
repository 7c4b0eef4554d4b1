package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// AlertConfig selects where operator alerts are delivered. A sink is
// used only when its fields are all present; Enabled gates the whole
// feature so a config file can stay in place while alerts are off.
type AlertConfig struct {
	Enabled          bool   `json:"enabled"`
	TelegramBotToken string `json:"telegram_bot_token,omitempty"`
	TelegramChatID   string `json:"telegram_chat_id,omitempty"`
	DiscordWebhook   string `json:"discord_webhook,omitempty"`
}

// LoadAlertConfig reads the alert sink config. A missing file means
// alerts are disabled, not an error.
func LoadAlertConfig(path string) (*AlertConfig, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &AlertConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read alert config: %w", err)
	}

	var cfg AlertConfig
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse alert config: %w", err)
	}
	return &cfg, nil
}

// Telegram reports whether the telegram sink is fully configured.
func (c *AlertConfig) Telegram() bool {
	return c.Enabled && c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Discord reports whether the discord sink is fully configured.
func (c *AlertConfig) Discord() bool {
	return c.Enabled && c.DiscordWebhook != ""
}
