package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sendMessage sends a text message
func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.send == nil {
		return // For testing
	}

	if _, err := b.send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}

// sendPhoto sends a photo message
func (b *Bot) sendPhoto(photo tgbotapi.PhotoConfig) error {
	if b.send == nil {
		return nil // For testing
	}

	if _, err := b.send(photo); err != nil {
		b.logger.Error("Failed to send photo",
			zap.Error(err),
			zap.Int64("chat_id", photo.ChatID),
		)
		return err
	}
	return nil
}

// answerCallback acknowledges a callback query to remove the loading state
func (b *Bot) answerCallback(queryID string) {
	if b.api == nil {
		return // For testing
	}

	callback := tgbotapi.NewCallback(queryID, "")
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
}

// escapeUserField makes user-provided text safe for HTML-formatted captions
func escapeUserField(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, text)
}
