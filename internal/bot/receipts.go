package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"receiptbot/internal/models"
)

// handlePhoto records an incoming receipt photo and relays it to the
// connected group
func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) {
	// Telegram delivers photo sizes smallest first
	largest := message.Photo[len(message.Photo)-1]

	receipt := models.Receipt{
		UserID:     message.From.ID,
		FirstName:  message.From.FirstName,
		LastName:   message.From.LastName,
		Username:   message.From.UserName,
		FileID:     largest.FileID,
		Caption:    message.Caption,
		ReceivedAt: time.Now().In(b.loc),
	}

	if err := b.db.CreateReceipt(ctx, receipt); err != nil {
		b.logger.Error("Failed to save receipt",
			zap.Error(err),
			zap.Int64("user_id", receipt.UserID),
		)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Failed to save your receipt. Please try again.")
		b.sendMessage(msg)
		return
	}

	b.logger.Info("Receipt recorded",
		zap.Int64("user_id", receipt.UserID),
		zap.Time("received_at", receipt.ReceivedAt),
	)

	b.relayReceipt(receipt)

	msg := tgbotapi.NewMessage(message.Chat.ID, "✅ Receipt received! It has been passed on for review.")
	b.sendMessage(msg)
}

// relayReceipt forwards the receipt photo to the connected group. Relay
// failures are logged only; the sender's record is already stored.
func (b *Bot) relayReceipt(receipt models.Receipt) {
	groupID, ok := b.group.Current()
	if !ok {
		b.logger.Info("No group connected, skipping relay",
			zap.Int64("user_id", receipt.UserID),
		)
		return
	}

	photo := tgbotapi.NewPhoto(groupID, tgbotapi.FileID(receipt.FileID))
	photo.Caption = formatCaption(receipt)
	photo.ParseMode = tgbotapi.ModeHTML

	if err := b.sendPhoto(photo); err != nil {
		b.logger.Error("Failed to relay receipt to group",
			zap.Error(err),
			zap.Int64("group_id", groupID),
			zap.Int64("user_id", receipt.UserID),
		)
	}
}

// handleDayCallback replays a day's receipts as individual photo messages
func (b *Bot) handleDayCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	key := strings.TrimPrefix(query.Data, "day:")
	chatID := query.Message.Chat.ID

	from, to, err := DayBounds(key, b.loc)
	if err != nil {
		b.logger.Warn("Invalid day callback data",
			zap.Error(err),
			zap.String("callback_data", query.Data),
		)
		return
	}

	receipts, err := b.db.GetReceiptsBetween(ctx, from, to)
	if err != nil {
		b.logger.Error("Failed to get receipts for day",
			zap.Error(err),
			zap.String("day", key),
		)
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	if len(receipts) == 0 {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("No receipts for %s.", key))
		b.sendMessage(msg)
		return
	}

	b.logger.Info("Replaying receipts for day",
		zap.String("day", key),
		zap.Int("count", len(receipts)),
	)

	for _, receipt := range receipts {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(receipt.FileID))
		photo.Caption = formatCaption(receipt)
		photo.ParseMode = tgbotapi.ModeHTML
		b.sendPhoto(photo)
	}
}

// formatCaption renders the fixed caption block with escaped user fields
func formatCaption(receipt models.Receipt) string {
	name := strings.TrimSpace(receipt.FirstName + " " + receipt.LastName)

	username := "—"
	if receipt.Username != "" {
		username = "@" + escapeUserField(receipt.Username)
	}

	var text strings.Builder
	text.WriteString("🧾 <b>New receipt</b>\n\n")
	text.WriteString(fmt.Sprintf("👤 From: %s\n", escapeUserField(name)))
	text.WriteString(fmt.Sprintf("🔗 Username: %s\n", username))
	text.WriteString(fmt.Sprintf("🆔 ID: <code>%d</code>\n", receipt.UserID))
	text.WriteString(fmt.Sprintf("🕒 Received: %s", receipt.ReceivedAt.Format("02/01/06 15:04")))

	if receipt.Caption != "" {
		text.WriteString(fmt.Sprintf("\n💬 Note: %s", escapeUserField(receipt.Caption)))
	}

	return text.String()
}
