package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"receiptbot/internal/storage"
)

// NewBot creates a new Telegram bot
func NewBot(token string, db storage.Storage, ownerID int64, loc *time.Location, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	group := NewConnection(db)
	if err := group.Load(context.Background()); err != nil {
		// A failed load leaves the connection unset; relaying stays
		// disabled until the owner reconnects
		logger.Error("Failed to load connected group", zap.Error(err))
	}

	logger.Info("Bot created",
		zap.String("bot_username", api.Self.UserName),
		zap.Int64("owner_id", ownerID),
	)

	return &Bot{
		api:     api,
		db:      db,
		ownerID: ownerID,
		group:   group,
		loc:     loc,
		logger:  logger,
		send:    api.Send,
	}, nil
}

// GetAPI returns the bot API for testing
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}
