package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"receiptbot/internal/storage/stubs"
)

// Note: We can't easily mock tgbotapi.BotAPI, so tests focus on internal
// logic without actually sending messages to Telegram (api == nil)

const (
	testOwnerID = int64(100)
	testUserID  = int64(200)
	testGroupID = int64(-100123)
)

func newTestBot(t *testing.T, db *stubs.MockDB) *Bot {
	t.Helper()

	group := NewConnection(db)
	if err := group.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load connection: %v", err)
	}

	return &Bot{
		api:     nil, // Not needed for internal logic tests
		db:      db,
		ownerID: testOwnerID,
		group:   group,
		loc:     time.UTC,
		logger:  zap.NewNop(), // Use nop logger for tests
	}
}

// captureSends replaces the bot's sender with one that records outgoing
// messages instead of hitting Telegram
func captureSends(bot *Bot) *[]tgbotapi.Chattable {
	sent := &[]tgbotapi.Chattable{}
	bot.send = func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
		*sent = append(*sent, c)
		return tgbotapi.Message{}, nil
	}
	return sent
}

// newCommandMessage builds a message that tgbotapi recognizes as a command
func newCommandMessage(userID, chatID int64, chatType, text string) *tgbotapi.Message {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}

	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID, Type: chatType},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: cmdLen},
		},
	}
}

func newPhotoMessage(userID, chatID int64, fileIDs ...string) *tgbotapi.Message {
	var photos []tgbotapi.PhotoSize
	for i, id := range fileIDs {
		photos = append(photos, tgbotapi.PhotoSize{
			FileID: id,
			Width:  100 * (i + 1),
			Height: 100 * (i + 1),
		})
	}
	return &tgbotapi.Message{
		From: &tgbotapi.User{
			ID:        userID,
			FirstName: "Test",
			LastName:  "User",
			UserName:  "testuser",
		},
		Chat:  &tgbotapi.Chat{ID: chatID, Type: "private"},
		Photo: photos,
	}
}

func TestBot_ConnectAndDisconnect(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)
	ctx := context.Background()

	// Owner connects the group from within the group chat
	bot.handleMessage(newCommandMessage(testOwnerID, testGroupID, "supergroup", "/connectgp"))

	groupID, ok := bot.group.Current()
	if !ok || groupID != testGroupID {
		t.Fatalf("Expected connected group %d, got %d (connected=%v)", testGroupID, groupID, ok)
	}

	// The connection is persisted, not just cached
	stored, err := db.LoadConnectedGroup(ctx)
	if err != nil {
		t.Fatalf("Failed to load connected group: %v", err)
	}
	if stored != testGroupID {
		t.Errorf("Expected stored group %d, got %d", testGroupID, stored)
	}

	// Disconnect clears both storage and cache
	bot.handleMessage(newCommandMessage(testOwnerID, testGroupID, "supergroup", "/disconnect"))

	if _, ok := bot.group.Current(); ok {
		t.Error("Expected no connected group after /disconnect")
	}
	stored, err = db.LoadConnectedGroup(ctx)
	if err != nil {
		t.Fatalf("Failed to load connected group: %v", err)
	}
	if stored != 0 {
		t.Errorf("Expected stored group 0 after disconnect, got %d", stored)
	}
}

func TestBot_ConnectInPrivateChatRejected(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)

	// /connectgp only makes sense inside a group
	bot.handleMessage(newCommandMessage(testOwnerID, testOwnerID, "private", "/connectgp"))

	if _, ok := bot.group.Current(); ok {
		t.Error("Expected no connected group after /connectgp in private chat")
	}
}

func TestBot_NonOwnerCommandsIgnored(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)
	ctx := context.Background()

	if err := bot.group.Set(ctx, testGroupID); err != nil {
		t.Fatalf("Failed to set group: %v", err)
	}
	sent := captureSends(bot)

	// A non-owner issuing owner commands must change nothing
	bot.handleMessage(newCommandMessage(testUserID, testGroupID, "supergroup", "/disconnect"))
	bot.handleMessage(newCommandMessage(testUserID, testUserID, "private", "/receipt"))

	groupID, ok := bot.group.Current()
	if !ok || groupID != testGroupID {
		t.Errorf("Expected connected group to survive non-owner commands, got %d (connected=%v)", groupID, ok)
	}

	// And produce no reply at all, privileged or otherwise
	if len(*sent) != 0 {
		t.Errorf("Expected no replies to non-owner commands, got %d", len(*sent))
	}
}

func TestBot_NonOwnerCallbackIgnored(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)

	// Should neither panic nor touch state
	bot.handleCallbackQuery(&tgbotapi.CallbackQuery{
		ID:   "q1",
		From: &tgbotapi.User{ID: testUserID},
		Data: "day:05/01/24",
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: testUserID, Type: "private"},
		},
	})

	if _, ok := bot.group.Current(); ok {
		t.Error("Expected no connected group")
	}
}

func TestBot_PhotoPersistsReceipt(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)
	ctx := context.Background()

	if err := bot.group.Set(ctx, testGroupID); err != nil {
		t.Fatalf("Failed to set group: %v", err)
	}
	sent := captureSends(bot)

	msg := newPhotoMessage(testUserID, testUserID, "small-file", "large-file")
	msg.Caption = "groceries"

	bot.handleMessage(msg)

	times, err := db.ListReceiptTimes(ctx)
	if err != nil {
		t.Fatalf("Failed to list receipt times: %v", err)
	}
	if len(times) != 1 {
		t.Fatalf("Expected 1 receipt, got %d", len(times))
	}

	from, to, err := DayBounds(DayKey(times[0], time.UTC), time.UTC)
	if err != nil {
		t.Fatalf("Failed to compute day bounds: %v", err)
	}
	receipts, err := db.GetReceiptsBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("Failed to get receipts: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("Expected 1 receipt in day bucket, got %d", len(receipts))
	}

	receipt := receipts[0]
	if receipt.FileID != "large-file" {
		t.Errorf("Expected highest-resolution file ID 'large-file', got '%s'", receipt.FileID)
	}
	if receipt.Caption != "groceries" {
		t.Errorf("Expected caption 'groceries', got '%s'", receipt.Caption)
	}
	if receipt.UserID != testUserID {
		t.Errorf("Expected user ID %d, got %d", testUserID, receipt.UserID)
	}
	if receipt.Username != "testuser" {
		t.Errorf("Expected username 'testuser', got '%s'", receipt.Username)
	}

	// Relay to the group, then acknowledgement to the sender
	if len(*sent) != 2 {
		t.Fatalf("Expected 2 outgoing messages (relay + ack), got %d", len(*sent))
	}
	relay, ok := (*sent)[0].(tgbotapi.PhotoConfig)
	if !ok {
		t.Fatalf("Expected first outgoing message to be a photo, got %T", (*sent)[0])
	}
	if relay.ChatID != testGroupID {
		t.Errorf("Expected relay to group %d, got %d", testGroupID, relay.ChatID)
	}
	ack, ok := (*sent)[1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("Expected second outgoing message to be text, got %T", (*sent)[1])
	}
	if ack.ChatID != testUserID {
		t.Errorf("Expected acknowledgement to sender %d, got %d", testUserID, ack.ChatID)
	}
}

func TestBot_GroupPhotoNotTreatedAsReceipt(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)
	ctx := context.Background()

	if err := bot.group.Set(ctx, testGroupID); err != nil {
		t.Fatalf("Failed to set group: %v", err)
	}
	sent := captureSends(bot)

	// A photo posted inside the connected review group is not a
	// submission: nothing stored, nothing relayed, no acknowledgement
	msg := newPhotoMessage(testUserID, testGroupID, "file")
	msg.Chat.Type = "supergroup"
	bot.handleMessage(msg)

	times, err := db.ListReceiptTimes(ctx)
	if err != nil {
		t.Fatalf("Failed to list receipt times: %v", err)
	}
	if len(times) != 0 {
		t.Errorf("Expected no receipts stored for group photo, got %d", len(times))
	}
	if len(*sent) != 0 {
		t.Errorf("Expected no outgoing messages for group photo, got %d", len(*sent))
	}
}

func TestBot_PhotoSaveFailureStoresNothing(t *testing.T) {
	db := stubs.NewMockDB()
	db.FailSaves = true
	bot := newTestBot(t, db)
	ctx := context.Background()

	bot.handleMessage(newPhotoMessage(testUserID, testUserID, "file"))

	db.FailSaves = false
	times, err := db.ListReceiptTimes(ctx)
	if err != nil {
		t.Fatalf("Failed to list receipt times: %v", err)
	}
	if len(times) != 0 {
		t.Errorf("Expected no receipts after failed save, got %d", len(times))
	}
}

func TestBot_DayCallbackInvalidKey(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)

	// Malformed callback data must not panic
	bot.handleCallbackQuery(&tgbotapi.CallbackQuery{
		ID:   "q1",
		From: &tgbotapi.User{ID: testOwnerID},
		Data: "day:garbage",
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: testOwnerID, Type: "private"},
		},
	})
}

func TestBot_PanicRecovery(t *testing.T) {
	db := stubs.NewMockDB()
	bot := newTestBot(t, db)

	// A message without From would panic inside the handlers; the
	// boundary recover must swallow it
	bot.handleMessage(&tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: testUserID, Type: "private"},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "file"},
		},
	})
}
