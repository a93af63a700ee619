package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"receiptbot/internal/storage"
)

// Bot represents the Telegram bot wrapper
type Bot struct {
	api     *tgbotapi.BotAPI
	db      storage.Storage
	ownerID int64
	group   *Connection
	loc     *time.Location
	logger  *zap.Logger

	// send delivers outgoing messages; api.Send in production, replaced
	// in tests to capture what would have been sent
	send func(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
