package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/quizzy/internal/database"
	"github.com/example/quizzy/internal/feed"
	"github.com/example/quizzy/internal/quiz"
)

// MenuButton represents a button in an inline menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Pending input states for multi-step flows
const (
	awaitingNothing    = ""
	awaitingSetTitle   = "set_title"
	awaitingImportText = "import_text"
	awaitingRename     = "rename_set"
	awaitingAnswer     = "answer"
)

// feed kinds
const (
	feedSet    = "set"
	feedSaved  = "saved"
	feedScroll = "scroll"
)

// chatState holds a chat's in-flight quiz, feed and pending input. A chat
// drives exactly one surface at a time; updates for a chat are handled
// sequentially by the update loop, so no locking is needed.
type chatState struct {
	quiz         *quiz.Session
	quizSetID    string
	quizTitle    string
	feed         *feed.Feed
	feedKind     string
	feedIndex    int
	awaiting     string
	pendingTitle string
	pendingSetID string
}

// Bot is the Telegram front end over the quiz and feed engines
type Bot struct {
	api    *tgbotapi.BotAPI
	config *Config
	states map[int64]*chatState

	sets      *database.SetRepository
	bookmarks *database.BookmarkRepository
	results   *database.QuizResultRepository
	prefs     *database.PreferenceRepository
}

// NewBot creates a bot from a Telegram API token
func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	return &Bot{
		api:       api,
		config:    DefaultConfig(),
		states:    make(map[int64]*chatState),
		sets:      database.NewSetRepository(),
		bookmarks: database.NewBookmarkRepository(),
		results:   database.NewQuizResultRepository(),
		prefs:     database.NewPreferenceRepository(),
	}, nil
}

// Start processes updates until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop shuts down the update channel
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

// handleUpdate dispatches a single update
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(update.CallbackQuery); err != nil {
			log.Printf("Error handling callback %q: %v", update.CallbackQuery.Data, err)
		}
	case update.Message != nil && update.Message.IsCommand():
		if err := b.handleCommand(update.Message); err != nil {
			log.Printf("Error handling command %q: %v", update.Message.Command(), err)
		}
	case update.Message != nil:
		if err := b.handleText(update.Message); err != nil {
			log.Printf("Error handling message: %v", err)
		}
	}
}

// state returns the chat's state, creating it if needed
func (b *Bot) state(chatID int64) *chatState {
	s, ok := b.states[chatID]
	if !ok {
		s = &chatState{}
		b.states[chatID] = s
	}
	return s
}

// send delivers a plain text message
func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

// sendWithKeyboard delivers a message with an inline keyboard
func (b *Bot) sendWithKeyboard(chatID int64, text string, buttons [][]MenuButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(buttons)
	_, err := b.api.Send(msg)
	return err
}

// SendStudyReminder implements scheduler.Notifier
func (b *Bot) SendStudyReminder(chatID int64, savedCards int) error {
	text := "📚 Time to study!"
	if savedCards > 0 {
		text = fmt.Sprintf("📚 Time to study! You have %d saved cards waiting for review.", savedCards)
	}
	return b.sendWithKeyboard(chatID, text, [][]MenuButton{
		{{Text: "🔖 Review saved cards", CallbackData: "browse:saved"}},
		{{Text: "🎲 Shuffle all cards", CallbackData: "browse:scroll"}},
	})
}

// formatDuration renders a millisecond duration like the speed-quiz timer:
// "4.3s" or "1m 12.3s"
func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	seconds := ms / 1000
	minutes := seconds / 60
	remaining := seconds % 60
	tenths := (ms % 1000) / 100
	if minutes > 0 {
		return fmt.Sprintf("%dm %d.%ds", minutes, remaining, tenths)
	}
	return fmt.Sprintf("%d.%ds", seconds, tenths)
}
