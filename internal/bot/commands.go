package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleStart shows the welcome message
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the Receipt Relay Bot! 🧾

Send me a photo of your purchase receipt and I will pass it on for review. You can add a note as the photo caption.

Use /help to see available commands.`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	b.sendMessage(msg)
}

// handleHelp shows available commands
func (b *Bot) handleHelp(message *tgbotapi.Message) {
	text := `Available commands:
/start - Show the welcome message
/help - Show this message

Owner commands:
/connectgp - Connect the current group as the review destination
/disconnect - Stop relaying receipts
/receipt - Browse stored receipts by day`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	b.sendMessage(msg)
}

// handleConnect connects the group the command was issued in
func (b *Bot) handleConnect(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat.IsPrivate() {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Use /connectgp inside the group you want receipts relayed to.")
		b.sendMessage(msg)
		return
	}

	groupID := message.Chat.ID
	if err := b.group.Set(ctx, groupID); err != nil {
		b.logger.Error("Failed to connect group",
			zap.Error(err),
			zap.Int64("group_id", groupID),
		)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Failed to connect this group. Please try again.")
		b.sendMessage(msg)
		return
	}

	b.logger.Info("Group connected",
		zap.Int64("group_id", groupID),
		zap.String("title", message.Chat.Title),
	)
	msg := tgbotapi.NewMessage(message.Chat.ID, "✅ This group is now connected. Incoming receipts will be relayed here.")
	b.sendMessage(msg)
}

// handleDisconnect clears the connected group
func (b *Bot) handleDisconnect(ctx context.Context, message *tgbotapi.Message) {
	if err := b.group.Clear(ctx); err != nil {
		b.logger.Error("Failed to disconnect group", zap.Error(err))
		msg := tgbotapi.NewMessage(message.Chat.ID, "Failed to disconnect. Please try again.")
		b.sendMessage(msg)
		return
	}

	b.logger.Info("Group disconnected")
	msg := tgbotapi.NewMessage(message.Chat.ID, "Group disconnected. Incoming receipts will no longer be relayed.")
	b.sendMessage(msg)
}

// handleReceiptList shows one button per distinct receipt day (3 per row)
func (b *Bot) handleReceiptList(ctx context.Context, message *tgbotapi.Message) {
	times, err := b.db.ListReceiptTimes(ctx)
	if err != nil {
		b.logger.Error("Failed to list receipt times", zap.Error(err))
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	if len(times) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "No receipts recorded yet.")
		b.sendMessage(msg)
		return
	}

	days := BucketDays(times, b.loc)

	msg := tgbotapi.NewMessage(message.Chat.ID, "📅 Select a day:")
	msg.ReplyMarkup = buildDayKeyboard(days)
	b.sendMessage(msg)
}

// buildDayKeyboard renders day buttons in rows of three
func buildDayKeyboard(days []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton
	for i, day := range days {
		button := tgbotapi.NewInlineKeyboardButtonData(day, "day:"+day)
		currentRow = append(currentRow, button)

		// Close the row at 3 buttons or on the last day
		if len(currentRow) == 3 || i == len(days)-1 {
			rows = append(rows, currentRow)
			currentRow = []tgbotapi.InlineKeyboardButton{}
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
