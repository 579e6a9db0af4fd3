package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/quizzy/internal/feed"
	"github.com/example/quizzy/internal/importer"
	"github.com/example/quizzy/internal/quiz"
	"github.com/example/quizzy/pkg/models"
)

// modeNames maps engine modes to display names
var modeNames = map[quiz.Mode]string{
	quiz.ModeTypeAnswer:          "✍️ Type In",
	quiz.ModeMultipleChoice:      "🎯 Multiple Choice",
	quiz.ModeTimedMultipleChoice: "⚡ Speed Quiz",
}

// handleCommand dispatches a slash command
func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		return b.handleStart(message)
	case "help":
		return b.handleHelp(message)
	case "sets":
		return b.showSetList(chatID)
	case "new":
		return b.beginCreateSet(chatID)
	case "saved":
		return b.showFeed(chatID, feedSaved, "")
	case "scroll":
		return b.showFeed(chatID, feedScroll, "")
	case "stats":
		return b.showStats(chatID)
	case "settings":
		return b.showSettings(chatID)
	case "import":
		return b.handleImportCommand(chatID, message.CommandArguments())
	case "cancel":
		return b.handleCancel(chatID)
	default:
		return b.send(chatID, "Unknown command. Try /help.")
	}
}

// handleImportCommand imports sets from a workbook file on the bot host.
// Intended for operators seeding the bot with prepared xlsx/csv files.
func (b *Bot) handleImportCommand(chatID int64, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return b.send(chatID, "Usage: /import <path to .xlsx or .csv file on the server>\n\n"+
			"Columns: A = term, B = definition, C = set title (optional).")
	}

	result, err := importer.ImportWorkbook(importer.DefaultWorkbookConfig(path))
	if err != nil {
		log.Printf("Error importing workbook %q: %v", path, err)
		return b.send(chatID, fmt.Sprintf("Import failed: %v", err))
	}

	imported := 0
	for i := range result.Sets {
		if err := b.sets.Create(&result.Sets[i]); err != nil {
			return fmt.Errorf("failed to save imported set: %v", err)
		}
		imported += len(result.Sets[i].Cards)
	}

	text := fmt.Sprintf("✅ Imported %d cards into %d sets (%d rows processed, %d skipped).",
		imported, len(result.Sets), result.TotalProcessed, result.Skipped)
	if len(result.Errors) > 0 {
		text += "\n\nProblems:\n" + strings.Join(result.Errors, "\n")
	}
	return b.send(chatID, text)
}

// handleStart greets the user and shows the main menu
func (b *Bot) handleStart(message *tgbotapi.Message) error {
	text := "👋 Welcome to Quizzy!\n\n" +
		"Create sets of term/definition flashcards, flip through them, " +
		"and drill yourself with quizzes."
	return b.sendWithKeyboard(message.Chat.ID, text, b.mainMenuButtons())
}

// handleHelp lists the available commands
func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "Commands:\n" +
		"/sets - browse your flashcard sets\n" +
		"/new - create a set from pasted lines\n" +
		"/saved - flip through your saved cards\n" +
		"/scroll - shuffled feed of every card\n" +
		"/stats - your quiz history\n" +
		"/settings - theme and reminders\n" +
		"/import - load sets from a workbook file on the server\n" +
		"/cancel - abandon the current flow"
	return b.send(message.Chat.ID, text)
}

// handleCancel clears any in-flight flow for the chat. Abandoned quiz
// sessions are simply discarded.
func (b *Bot) handleCancel(chatID int64) error {
	b.states[chatID] = &chatState{}
	return b.sendWithKeyboard(chatID, "Cancelled.", b.mainMenuButtons())
}

func (b *Bot) mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{{Text: "📚 My sets", CallbackData: "sets"}, {Text: "➕ New set", CallbackData: "new"}},
		{{Text: "🔖 Saved cards", CallbackData: "browse:saved"}, {Text: "🎲 Shuffle all", CallbackData: "browse:scroll"}},
		{{Text: "📊 Stats", CallbackData: "stats"}, {Text: "⚙️ Settings", CallbackData: "settings"}},
	}
}

// handleText routes a plain message according to the chat's pending input
func (b *Bot) handleText(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	state := b.state(chatID)

	switch state.awaiting {
	case awaitingSetTitle:
		return b.receiveSetTitle(chatID, message.Text)
	case awaitingImportText:
		return b.receiveImportText(chatID, message.Text)
	case awaitingRename:
		return b.receiveRename(chatID, message.Text)
	case awaitingAnswer:
		return b.receiveTypedAnswer(chatID, message.Text)
	default:
		return b.send(chatID, "Pick an action from the menu, or /help.")
	}
}

// handleCallback dispatches an inline keyboard press
func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) error {
	// Acknowledge the press so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error acknowledging callback: %v", err)
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case data == "menu":
		return b.sendWithKeyboard(chatID, "What next?", b.mainMenuButtons())
	case data == "sets":
		return b.showSetList(chatID)
	case data == "new":
		return b.beginCreateSet(chatID)
	case data == "stats":
		return b.showStats(chatID)
	case data == "settings":
		return b.showSettings(chatID)
	case strings.HasPrefix(data, "set:"):
		return b.showSetMenu(chatID, strings.TrimPrefix(data, "set:"))
	case strings.HasPrefix(data, "rename:"):
		return b.beginRenameSet(chatID, strings.TrimPrefix(data, "rename:"))
	case strings.HasPrefix(data, "delete:"):
		return b.confirmDeleteSet(chatID, strings.TrimPrefix(data, "delete:"))
	case strings.HasPrefix(data, "delete!:"):
		return b.deleteSet(chatID, strings.TrimPrefix(data, "delete!:"))
	case strings.HasPrefix(data, "browse:"):
		return b.handleBrowseCallback(chatID, strings.TrimPrefix(data, "browse:"))
	case strings.HasPrefix(data, "feed:"):
		return b.handleFeedAction(chatID, strings.TrimPrefix(data, "feed:"))
	case strings.HasPrefix(data, "quizmenu:"):
		return b.showQuizModeMenu(chatID, strings.TrimPrefix(data, "quizmenu:"))
	case strings.HasPrefix(data, "quiz:"):
		return b.handleQuizStart(chatID, strings.TrimPrefix(data, "quiz:"))
	case data == "quiz!next":
		return b.advanceQuiz(chatID)
	case data == "quiz!again":
		return b.restartQuiz(chatID)
	case strings.HasPrefix(data, "choice:"):
		return b.handleChoice(chatID, strings.TrimPrefix(data, "choice:"))
	case strings.HasPrefix(data, "pref:"):
		return b.handlePreferenceAction(chatID, strings.TrimPrefix(data, "pref:"))
	default:
		return b.send(chatID, "That button has expired. Try /start.")
	}
}

// --- Set browsing and creation ---

// showSetList lists all sets as an inline keyboard
func (b *Bot) showSetList(chatID int64) error {
	sets, err := b.sets.GetAll()
	if err != nil {
		return fmt.Errorf("failed to list sets: %v", err)
	}

	if len(sets) == 0 {
		return b.sendWithKeyboard(chatID, "You have no sets yet.", [][]MenuButton{
			{{Text: "➕ Create your first set", CallbackData: "new"}},
		})
	}

	buttons := make([][]MenuButton, 0, len(sets)+1)
	for i, set := range sets {
		if i >= b.config.SetsPerPage {
			break
		}
		label := fmt.Sprintf("%s (%d cards)", set.Title, len(set.Cards))
		buttons = append(buttons, []MenuButton{{Text: label, CallbackData: "set:" + set.ID}})
	}
	buttons = append(buttons, []MenuButton{{Text: "➕ New set", CallbackData: "new"}})

	return b.sendWithKeyboard(chatID, "📚 Your sets:", buttons)
}

// showSetMenu shows the actions available for one set
func (b *Bot) showSetMenu(chatID int64, setID string) error {
	set, err := b.sets.GetByID(setID)
	if err != nil {
		return fmt.Errorf("failed to get set: %v", err)
	}
	if set == nil {
		return b.send(chatID, "That set no longer exists.")
	}

	text := fmt.Sprintf("📖 %s\n%d cards", set.Title, len(set.Cards))
	return b.sendWithKeyboard(chatID, text, [][]MenuButton{
		{{Text: "🃏 Browse cards", CallbackData: "browse:set:" + set.ID}},
		{{Text: "▶️ Quiz mode", CallbackData: "quizmenu:" + set.ID}},
		{{Text: "✏️ Rename", CallbackData: "rename:" + set.ID}, {Text: "🗑 Delete", CallbackData: "delete:" + set.ID}},
		{{Text: "⬅️ Back", CallbackData: "sets"}},
	})
}

func (b *Bot) beginRenameSet(chatID int64, setID string) error {
	state := b.state(chatID)
	state.awaiting = awaitingRename
	state.pendingSetID = setID
	return b.send(chatID, "Send the new title for this set.")
}

func (b *Bot) receiveRename(chatID int64, text string) error {
	title := strings.TrimSpace(text)
	if title == "" {
		return b.send(chatID, "Please send a non-empty title.")
	}

	state := b.state(chatID)
	setID := state.pendingSetID
	state.awaiting = awaitingNothing
	state.pendingSetID = ""

	set, err := b.sets.GetByID(setID)
	if err != nil {
		return fmt.Errorf("failed to get set: %v", err)
	}
	if set == nil {
		return b.send(chatID, "That set no longer exists.")
	}

	set.Title = title
	if err := b.sets.Update(set); err != nil {
		return fmt.Errorf("failed to rename set: %v", err)
	}
	return b.showSetMenu(chatID, setID)
}

func (b *Bot) confirmDeleteSet(chatID int64, setID string) error {
	return b.sendWithKeyboard(chatID, "Delete this set and its cards?", [][]MenuButton{
		{{Text: "Yes, delete", CallbackData: "delete!:" + setID}, {Text: "Keep it", CallbackData: "set:" + setID}},
	})
}

func (b *Bot) deleteSet(chatID int64, setID string) error {
	if err := b.sets.Delete(setID); err != nil {
		return fmt.Errorf("failed to delete set: %v", err)
	}
	if err := b.send(chatID, "Set deleted."); err != nil {
		return err
	}
	return b.showSetList(chatID)
}

// beginCreateSet starts the two-step create flow: title, then card lines
func (b *Bot) beginCreateSet(chatID int64) error {
	state := b.state(chatID)
	state.awaiting = awaitingSetTitle
	state.pendingTitle = ""
	return b.send(chatID, "What should the new set be called?")
}

func (b *Bot) receiveSetTitle(chatID int64, text string) error {
	title := strings.TrimSpace(text)
	if title == "" {
		return b.send(chatID, "Please send a non-empty title.")
	}

	state := b.state(chatID)
	state.pendingTitle = title
	state.awaiting = awaitingImportText

	return b.send(chatID, "Now paste the cards, one per line:\n\n"+
		"term, definition\n"+
		"photosynthesis, how plants turn light into food\n\n"+
		"The first comma on each line separates term from definition.")
}

func (b *Bot) receiveImportText(chatID int64, text string) error {
	state := b.state(chatID)

	cards, errs := importer.ParseText(text)
	if len(errs) > 0 {
		// Report every bad line so the paste can be fixed in one go
		return b.send(chatID, "Import errors: "+importer.FormatErrors(errs)+
			"\n\nFix the lines and paste again, or /cancel.")
	}
	if len(cards) == 0 {
		return b.send(chatID, "No valid cards found to import. Paste again, or /cancel.")
	}

	set := &models.FlashcardSet{
		Title: state.pendingTitle,
		Cards: cards,
	}
	if err := b.sets.Create(set); err != nil {
		return fmt.Errorf("failed to save set: %v", err)
	}

	state.awaiting = awaitingNothing
	state.pendingTitle = ""

	text = fmt.Sprintf("✅ Imported %d cards into \"%s\".", len(cards), set.Title)
	return b.sendWithKeyboard(chatID, text, [][]MenuButton{
		{{Text: "🃏 Browse cards", CallbackData: "browse:set:" + set.ID}},
		{{Text: "▶️ Quiz mode", CallbackData: "quizmenu:" + set.ID}},
	})
}

// --- Card feed ---

// handleBrowseCallback opens a feed: "set:<id>", "saved" or "scroll"
func (b *Bot) handleBrowseCallback(chatID int64, target string) error {
	if strings.HasPrefix(target, "set:") {
		return b.showFeed(chatID, feedSet, strings.TrimPrefix(target, "set:"))
	}
	return b.showFeed(chatID, target, "")
}

// showFeed builds the requested feed and shows its first card
func (b *Bot) showFeed(chatID int64, kind, setID string) error {
	var (
		f   *feed.Feed
		err error
	)

	switch kind {
	case feedSet:
		set, getErr := b.sets.GetByID(setID)
		if getErr != nil {
			return fmt.Errorf("failed to get set: %v", getErr)
		}
		if set == nil {
			return b.send(chatID, "That set no longer exists.")
		}
		f, err = feed.BuildSet(*set, b.bookmarks)
	case feedSaved:
		sets, listErr := b.sets.GetAll()
		if listErr != nil {
			return fmt.Errorf("failed to list sets: %v", listErr)
		}
		f, err = feed.BuildSaved(sets, b.bookmarks)
	case feedScroll:
		sets, listErr := b.sets.GetAll()
		if listErr != nil {
			return fmt.Errorf("failed to list sets: %v", listErr)
		}
		f, err = feed.Build(sets, b.bookmarks)
	default:
		return b.send(chatID, "That button has expired. Try /start.")
	}

	if err == feed.ErrEmptyFeed {
		switch kind {
		case feedSaved:
			return b.sendWithKeyboard(chatID, "No saved cards yet. Bookmark cards while browsing!", [][]MenuButton{
				{{Text: "🎲 Shuffle all cards", CallbackData: "browse:scroll"}},
			})
		default:
			return b.sendWithKeyboard(chatID, "No cards to browse yet.", [][]MenuButton{
				{{Text: "➕ New set", CallbackData: "new"}},
			})
		}
	}
	if err != nil {
		return fmt.Errorf("failed to build feed: %v", err)
	}

	state := b.state(chatID)
	state.feed = f
	state.feedKind = kind
	state.feedIndex = 0
	state.awaiting = awaitingNothing

	return b.showFeedCard(chatID)
}

// showFeedCard renders the feed's current card, term side or definition
// side depending on flip state
func (b *Bot) showFeedCard(chatID int64) error {
	state := b.state(chatID)
	if state.feed == nil {
		return b.send(chatID, "No cards open. Try /sets.")
	}

	card := state.feed.Cards()[state.feedIndex]

	var text string
	if state.feed.IsFlipped(card.ID) {
		text = fmt.Sprintf("💡 %s\n\n— %s", card.Definition, card.SetTitle)
	} else {
		text = fmt.Sprintf("🃏 %s\n\nTap Flip to reveal the definition.\n— %s", card.Term, card.SetTitle)
	}
	text = fmt.Sprintf("%s\n\n%d / %d", text, state.feedIndex+1, state.feed.Len())

	mark := "🔖 Save"
	if state.feed.IsBookmarked(card.ID) {
		mark = "✅ Saved"
	}

	buttons := [][]MenuButton{
		{{Text: "⬅️", CallbackData: "feed:prev"}, {Text: "🔄 Flip", CallbackData: "feed:flip"}, {Text: "➡️", CallbackData: "feed:next"}},
		{{Text: mark, CallbackData: "feed:mark"}},
	}
	if state.feedKind == feedSaved {
		buttons = append(buttons, []MenuButton{{Text: "▶️ Quiz saved cards", CallbackData: "quizmenu:saved"}})
	}
	buttons = append(buttons, []MenuButton{{Text: "🏠 Menu", CallbackData: "menu"}})

	return b.sendWithKeyboard(chatID, text, buttons)
}

// handleFeedAction applies a flip, navigation or bookmark press
func (b *Bot) handleFeedAction(chatID int64, action string) error {
	state := b.state(chatID)
	if state.feed == nil {
		return b.send(chatID, "No cards open. Try /sets.")
	}

	card := state.feed.Cards()[state.feedIndex]

	switch action {
	case "flip":
		state.feed.ToggleFlip(card.ID)
	case "next":
		if state.feedIndex+1 < state.feed.Len() {
			// The card scrolls out of view; reset its flip state
			state.feed.CardHidden(card.ID)
			state.feedIndex++
		}
	case "prev":
		if state.feedIndex > 0 {
			state.feed.CardHidden(card.ID)
			state.feedIndex--
		}
	case "mark":
		saved, err := state.feed.ToggleBookmark(card.SetID, card.ID)
		if err != nil {
			log.Printf("Error toggling bookmark for card %s: %v", card.ID, err)
			return b.send(chatID, "Couldn't update the bookmark, please try again.")
		}
		if saved {
			if err := b.send(chatID, "Card saved for later."); err != nil {
				return err
			}
		} else {
			if err := b.send(chatID, "Card removed from saved."); err != nil {
				return err
			}
		}
	default:
		return b.send(chatID, "That button has expired. Try /start.")
	}

	return b.showFeedCard(chatID)
}

// --- Quiz flow ---

// showQuizModeMenu offers the three quiz modes for a set (or "saved")
func (b *Bot) showQuizModeMenu(chatID int64, target string) error {
	title, cards, err := b.quizCards(target)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return b.send(chatID, "No cards to quiz.")
	}

	text := fmt.Sprintf("Quiz: %s\n%d cards\n\nChoose a mode:", title, len(cards))
	return b.sendWithKeyboard(chatID, text, [][]MenuButton{
		{{Text: modeNames[quiz.ModeTypeAnswer], CallbackData: "quiz:" + string(quiz.ModeTypeAnswer) + ":" + target}},
		{{Text: modeNames[quiz.ModeMultipleChoice], CallbackData: "quiz:" + string(quiz.ModeMultipleChoice) + ":" + target}},
		{{Text: modeNames[quiz.ModeTimedMultipleChoice], CallbackData: "quiz:" + string(quiz.ModeTimedMultipleChoice) + ":" + target}},
	})
}

// quizCards resolves a quiz target ("saved" or a set ID) to its cards
func (b *Bot) quizCards(target string) (string, []models.Flashcard, error) {
	if target == feedSaved {
		sets, err := b.sets.GetAll()
		if err != nil {
			return "", nil, fmt.Errorf("failed to list sets: %v", err)
		}
		refs, err := b.bookmarks.GetAll()
		if err != nil {
			return "", nil, fmt.Errorf("failed to list bookmarks: %v", err)
		}

		setsByID := make(map[string]models.FlashcardSet, len(sets))
		for _, set := range sets {
			setsByID[set.ID] = set
		}

		var cards []models.Flashcard
		for _, ref := range refs {
			set, ok := setsByID[ref.SetID]
			if !ok {
				continue
			}
			for _, card := range set.Cards {
				if card.ID == ref.CardID {
					cards = append(cards, card)
					break
				}
			}
		}
		return "Saved Cards", cards, nil
	}

	set, err := b.sets.GetByID(target)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get set: %v", err)
	}
	if set == nil {
		return "", nil, nil
	}
	return set.Title, set.Cards, nil
}

// handleQuizStart parses "quiz:<mode>:<target>" and starts a session
func (b *Bot) handleQuizStart(chatID int64, data string) error {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		return b.send(chatID, "That button has expired. Try /start.")
	}
	mode := quiz.Mode(parts[0])
	target := parts[1]

	title, cards, err := b.quizCards(target)
	if err != nil {
		return err
	}

	session, err := quiz.Start(cards, mode)
	if err == quiz.ErrEmptyDeck {
		return b.send(chatID, "No cards to quiz.")
	}
	if err != nil {
		return fmt.Errorf("failed to start quiz: %v", err)
	}

	state := b.state(chatID)
	state.quiz = session
	state.quizSetID = target
	state.quizTitle = title
	state.awaiting = awaitingNothing

	return b.sendQuestion(chatID)
}

// sendQuestion shows the current card's definition and collects an answer
func (b *Bot) sendQuestion(chatID int64) error {
	state := b.state(chatID)
	session := state.quiz

	card, err := session.CurrentCard()
	if err != nil {
		return fmt.Errorf("failed to get current card: %v", err)
	}

	header := fmt.Sprintf("%s — %d / %d", state.quizTitle, session.Position()+1, len(session.Deck()))
	text := fmt.Sprintf("%s\n\n❓ %s\n\nWhat is the term?", header, card.Definition)

	if session.Mode() == quiz.ModeTypeAnswer {
		state.awaiting = awaitingAnswer
		return b.send(chatID, text+"\n\nType your answer:")
	}

	choices := session.Choices()
	buttons := make([][]MenuButton, 0, len(choices))
	for i, choice := range choices {
		label := fmt.Sprintf("%c. %s", 'A'+i, choice)
		buttons = append(buttons, []MenuButton{{Text: label, CallbackData: "choice:" + strconv.Itoa(i)}})
	}
	return b.sendWithKeyboard(chatID, text, buttons)
}

// receiveTypedAnswer submits a type-in answer
func (b *Bot) receiveTypedAnswer(chatID int64, text string) error {
	state := b.state(chatID)
	session := state.quiz
	if session == nil {
		state.awaiting = awaitingNothing
		return b.send(chatID, "No quiz in progress. Try /sets.")
	}
	if strings.TrimSpace(text) == "" {
		return b.send(chatID, "Type your answer, or /cancel.")
	}

	state.awaiting = awaitingNothing
	return b.submitAnswer(chatID, text)
}

// handleChoice submits a multiple-choice answer by index
func (b *Bot) handleChoice(chatID int64, data string) error {
	state := b.state(chatID)
	session := state.quiz
	if session == nil {
		return b.send(chatID, "No quiz in progress. Try /sets.")
	}

	idx, err := strconv.Atoi(data)
	if err != nil || idx < 0 || idx >= len(session.Choices()) {
		return b.send(chatID, "That button has expired. Try /start.")
	}

	return b.submitAnswer(chatID, session.Choices()[idx])
}

// submitAnswer evaluates an answer and moves the quiz along. Speed mode
// advances on its own; the other modes show the outcome and wait for Next.
func (b *Bot) submitAnswer(chatID int64, answer string) error {
	state := b.state(chatID)
	session := state.quiz

	card, err := session.CurrentCard()
	if err != nil {
		return fmt.Errorf("failed to get current card: %v", err)
	}

	correct, err := session.SubmitAnswer(answer)
	if err == quiz.ErrAlreadyAnswered {
		return b.send(chatID, "Already answered — hit Next Question.")
	}
	if err != nil {
		return fmt.Errorf("failed to submit answer: %v", err)
	}

	if session.Mode() == quiz.ModeTimedMultipleChoice {
		// SubmitAnswer advanced the session already
		var flash string
		if correct {
			flash = "✅"
		} else {
			flash = fmt.Sprintf("❌ %s", card.Term)
		}
		if err := b.send(chatID, flash); err != nil {
			return err
		}
		if session.Status() == quiz.StatusComplete {
			return b.finishQuiz(chatID)
		}
		return b.sendQuestion(chatID)
	}

	var text string
	if correct {
		text = fmt.Sprintf("✅ Correct!\n\nAnswer: %s", card.Term)
	} else {
		text = fmt.Sprintf("❌ Incorrect\n\nCorrect answer: %s\nYour answer: %s", card.Term, strings.TrimSpace(answer))
	}

	next := "Next Question"
	if session.Position()+1 == len(session.Deck()) {
		next = "Finish Quiz"
	}
	return b.sendWithKeyboard(chatID, text, [][]MenuButton{
		{{Text: next, CallbackData: "quiz!next"}},
	})
}

// advanceQuiz moves past an answered question
func (b *Bot) advanceQuiz(chatID int64) error {
	state := b.state(chatID)
	session := state.quiz
	if session == nil {
		return b.send(chatID, "No quiz in progress. Try /sets.")
	}

	if err := session.Advance(); err != nil {
		return fmt.Errorf("failed to advance quiz: %v", err)
	}
	if session.Status() == quiz.StatusComplete {
		return b.finishQuiz(chatID)
	}
	return b.sendQuestion(chatID)
}

// finishQuiz renders the summary, persists the result and offers a retry
func (b *Bot) finishQuiz(chatID int64) error {
	state := b.state(chatID)
	session := state.quiz

	summary, err := session.Summary()
	if err != nil {
		return fmt.Errorf("failed to summarize quiz: %v", err)
	}

	setID := state.quizSetID
	if setID == feedSaved {
		setID = ""
	}
	result := &models.QuizResult{
		ChatID:       chatID,
		SetID:        setID,
		Mode:         string(session.Mode()),
		TotalCards:   summary.Total,
		CorrectCards: summary.Score,
		DurationMs:   summary.Elapsed.Milliseconds(),
		TakenAt:      time.Now(),
	}
	if err := b.results.Create(result); err != nil {
		log.Printf("Error saving quiz result: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏁 Quiz Complete!\n\n%d%%\n%d out of %d correct\n", summary.Percentage, summary.Score, summary.Total)

	switch {
	case summary.Percentage >= 80:
		sb.WriteString("Excellent work! 🎉\n")
	case summary.Percentage >= 60:
		sb.WriteString("Good job! Keep practicing.\n")
	default:
		sb.WriteString("Keep studying, you'll get there!\n")
	}

	if session.Mode() == quiz.ModeTimedMultipleChoice {
		avg := summary.Elapsed / time.Duration(summary.Total)
		fmt.Fprintf(&sb, "\n⚡ Total time: %s\nAverage: %s per question\n",
			formatDuration(summary.Elapsed), formatDuration(avg))

		sb.WriteString("\n")
		for _, r := range summary.Results {
			if r.Correct {
				fmt.Fprintf(&sb, "✅ %s → %s\n", r.Card.Definition, r.Card.Term)
			} else {
				fmt.Fprintf(&sb, "❌ %s → %s (you: %s)\n", r.Card.Definition, r.Card.Term, r.Answer)
			}
		}
	}

	return b.sendWithKeyboard(chatID, sb.String(), [][]MenuButton{
		{{Text: "🔁 Try Again", CallbackData: "quiz!again"}},
		{{Text: "🏠 Menu", CallbackData: "menu"}},
	})
}

// restartQuiz starts a fresh session over the same cards with a new shuffle
func (b *Bot) restartQuiz(chatID int64) error {
	state := b.state(chatID)
	if state.quiz == nil {
		return b.send(chatID, "No quiz to restart. Try /sets.")
	}

	session, err := state.quiz.Restart()
	if err != nil {
		return fmt.Errorf("failed to restart quiz: %v", err)
	}
	state.quiz = session
	return b.sendQuestion(chatID)
}

// --- Stats and settings ---

// showStats summarizes the chat's quiz history
func (b *Bot) showStats(chatID int64) error {
	stats, err := b.results.GetChatStats(chatID)
	if err != nil {
		return fmt.Errorf("failed to get stats: %v", err)
	}

	if stats.TotalQuizzes == 0 {
		return b.sendWithKeyboard(chatID, "No quizzes taken yet.", [][]MenuButton{
			{{Text: "📚 My sets", CallbackData: "sets"}},
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Your stats\n\nQuizzes taken: %d\nCards answered: %d\nCorrect: %d\nAverage score: %.0f%%\n",
		stats.TotalQuizzes, stats.TotalCards, stats.TotalCorrect, stats.AvgScore*100)

	results, err := b.results.GetByChatID(chatID)
	if err != nil {
		return fmt.Errorf("failed to get quiz results: %v", err)
	}

	sb.WriteString("\nRecent quizzes:\n")
	for i, r := range results {
		if i >= 5 {
			break
		}
		pct := 0
		if r.TotalCards > 0 {
			pct = r.CorrectCards * 100 / r.TotalCards
		}
		fmt.Fprintf(&sb, "• %s — %d/%d (%d%%)\n", modeNames[quiz.Mode(r.Mode)], r.CorrectCards, r.TotalCards, pct)
	}

	return b.send(chatID, sb.String())
}

// showSettings renders the theme and reminder preferences
func (b *Bot) showSettings(chatID int64) error {
	prefs, err := b.prefs.Get(chatID)
	if err != nil {
		return fmt.Errorf("failed to get preferences: %v", err)
	}

	theme := "☀️ Light"
	themeButton := "🌙 Switch to dark mode"
	if prefs.Theme == models.ThemeDark {
		theme = "🌙 Dark"
		themeButton = "☀️ Switch to light mode"
	}

	reminders := "off"
	reminderButton := "🔔 Enable daily reminders"
	if prefs.RemindersOn {
		reminders = fmt.Sprintf("on, at %02d:00", prefs.ReminderHour)
		reminderButton = "🔕 Disable reminders"
	}

	text := fmt.Sprintf("⚙️ Settings\n\nTheme: %s\nReminders: %s", theme, reminders)
	buttons := [][]MenuButton{
		{{Text: themeButton, CallbackData: "pref:theme"}},
		{{Text: reminderButton, CallbackData: "pref:reminders"}},
	}
	if prefs.RemindersOn {
		buttons = append(buttons, []MenuButton{{Text: "🕘 Change reminder hour", CallbackData: "pref:hours"}})
	}
	buttons = append(buttons, []MenuButton{{Text: "🏠 Menu", CallbackData: "menu"}})

	return b.sendWithKeyboard(chatID, text, buttons)
}

// handlePreferenceAction applies a settings keyboard press
func (b *Bot) handlePreferenceAction(chatID int64, action string) error {
	prefs, err := b.prefs.Get(chatID)
	if err != nil {
		return fmt.Errorf("failed to get preferences: %v", err)
	}

	switch {
	case action == "theme":
		if prefs.Theme == models.ThemeDark {
			prefs.Theme = models.ThemeLight
		} else {
			prefs.Theme = models.ThemeDark
		}
	case action == "reminders":
		prefs.RemindersOn = !prefs.RemindersOn
	case action == "hours":
		buttons := make([][]MenuButton, 0, 4)
		for _, row := range [][]int{{8, 10, 12}, {14, 16, 18}, {20, 21, 22}} {
			line := make([]MenuButton, 0, len(row))
			for _, h := range row {
				line = append(line, MenuButton{
					Text:         fmt.Sprintf("%02d:00", h),
					CallbackData: "pref:hour:" + strconv.Itoa(h),
				})
			}
			buttons = append(buttons, line)
		}
		return b.sendWithKeyboard(chatID, "When should the daily reminder arrive?", buttons)
	case strings.HasPrefix(action, "hour:"):
		hour, err := strconv.Atoi(strings.TrimPrefix(action, "hour:"))
		if err != nil || hour < 0 || hour > 23 {
			return b.send(chatID, "That button has expired. Try /settings.")
		}
		prefs.ReminderHour = hour
	default:
		return b.send(chatID, "That button has expired. Try /settings.")
	}

	if err := b.prefs.Upsert(prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %v", err)
	}
	return b.showSettings(chatID)
}
