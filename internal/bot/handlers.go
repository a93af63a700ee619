package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// commandHandler is the shape of a single command handler
type commandHandler func(ctx context.Context, message *tgbotapi.Message)

// isOwner reports whether the given user is the bot owner
func (b *Bot) isOwner(userID int64) bool {
	return userID == b.ownerID
}

// ownerOnly wraps a handler so that only the owner can invoke it.
// Non-owner invocations are logged and dropped without a reply, so the
// command set is not discoverable by probing.
func (b *Bot) ownerOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) {
		if !b.isOwner(message.From.ID) {
			b.logger.Warn("Unauthorized command attempt",
				zap.Int64("user_id", message.From.ID),
				zap.String("username", message.From.UserName),
				zap.String("text", message.Text),
			)
			return
		}
		next(ctx, message)
	}
}

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			msg := tgbotapi.NewMessage(message.Chat.ID, "An error occurred while processing your request. Please try again.")
			b.sendMessage(msg)
		}
	}()

	ctx := context.Background()

	// Photo messages in private chat are receipt submissions. Photos
	// posted in groups (including the review group itself) are not
	// receipts and are left alone.
	if len(message.Photo) > 0 {
		if message.Chat.IsPrivate() {
			b.handlePhoto(ctx, message)
		}
		return
	}

	// Handle commands
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStart(message)
		case "help":
			b.handleHelp(message)
		case "connectgp":
			b.ownerOnly(b.handleConnect)(ctx, message)
		case "disconnect":
			b.ownerOnly(b.handleDisconnect)(ctx, message)
		case "receipt":
			b.ownerOnly(b.handleReceiptList)(ctx, message)
		default:
			msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
			b.sendMessage(msg)
		}
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Recover from panics
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	ctx := context.Background()

	// Answer the callback query to remove loading state
	b.answerCallback(query.ID)

	// Day buttons belong to the owner's receipt browser
	if !b.isOwner(query.From.ID) {
		b.logger.Warn("Unauthorized callback query attempt",
			zap.Int64("user_id", query.From.ID),
			zap.String("callback_data", query.Data),
		)
		return
	}

	if strings.HasPrefix(query.Data, "day:") {
		b.handleDayCallback(ctx, query)
	}
}
