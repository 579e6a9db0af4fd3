package quiz

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/example/quizzy/internal/shuffle"
	"github.com/example/quizzy/pkg/models"
)

// Mode represents the interaction style of a quiz session
type Mode string

const (
	// ModeTypeAnswer asks the user to type the term for a definition
	ModeTypeAnswer Mode = "type_answer"
	// ModeMultipleChoice offers four candidate terms per question
	ModeMultipleChoice Mode = "multiple_choice"
	// ModeTimedMultipleChoice is multiple choice against the clock;
	// answering advances immediately
	ModeTimedMultipleChoice Mode = "timed_multiple_choice"
)

// DistractorCount is the number of wrong choices shown alongside the
// correct term in choice-based modes
const DistractorCount = 3

// Status represents the lifecycle state of a session
type Status string

const (
	// StatusInProgress means the session still has unanswered cards
	StatusInProgress Status = "in_progress"
	// StatusComplete means every card has been answered
	StatusComplete Status = "complete"
)

var (
	// ErrEmptyDeck is returned when a session is started without cards
	ErrEmptyDeck = errors.New("quiz: deck is empty")
	// ErrSessionComplete is returned when an operation requires an
	// in-progress session
	ErrSessionComplete = errors.New("quiz: session already complete")
	// ErrSessionNotComplete is returned when a summary is requested before
	// the session finishes
	ErrSessionNotComplete = errors.New("quiz: session not complete")
	// ErrAlreadyAnswered is returned when the current card is answered a
	// second time without advancing
	ErrAlreadyAnswered = errors.New("quiz: current card already answered")
)

// Result records the outcome of one answered question
type Result struct {
	Card    models.Flashcard `json:"card"`
	Answer  string           `json:"answer"`
	Correct bool             `json:"correct"`
}

// Summary aggregates a completed session for display
type Summary struct {
	Score      int           `json:"score"`
	Total      int           `json:"total"`
	Percentage int           `json:"percentage"`
	Elapsed    time.Duration `json:"elapsed"`
	Results    []Result      `json:"results"`
}

// Session is one attempt at quizzing a deck. It advances strictly forward
// and freezes once every card is answered; a new attempt is a new session.
type Session struct {
	mode        Mode
	source      []models.Flashcard
	deck        []models.Flashcard
	position    int
	choices     []string
	answered    bool
	results     []Result
	score       int
	status      Status
	startedAt   time.Time
	completedAt time.Time
	rnd         *rand.Rand
}

// Start creates a new session over a shuffled copy of the given cards
func Start(cards []models.Flashcard, mode Mode) (*Session, error) {
	return startWith(cards, mode, shuffle.NewRand())
}

func startWith(cards []models.Flashcard, mode Mode, rnd *rand.Rand) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	source := make([]models.Flashcard, len(cards))
	copy(source, cards)

	s := &Session{
		mode:      mode,
		source:    source,
		deck:      shuffle.Cards(rnd, source),
		results:   make([]Result, 0, len(cards)),
		status:    StatusInProgress,
		startedAt: time.Now(),
		rnd:       rnd,
	}

	if s.choiceBased() {
		s.choices = shuffle.BuildChoices(rnd, s.deck[0], s.deck, DistractorCount)
	}
	return s, nil
}

// Mode returns the session's interaction mode
func (s *Session) Mode() Mode {
	return s.mode
}

// Status returns the session's lifecycle state
func (s *Session) Status() Status {
	return s.status
}

// Deck returns the shuffled card order fixed at start
func (s *Session) Deck() []models.Flashcard {
	return s.deck
}

// Position returns the index of the current card; equal to the deck length
// once the session is complete
func (s *Session) Position() int {
	return s.position
}

// Score returns the number of correct answers so far
func (s *Session) Score() int {
	return s.score
}

// Results returns the answered questions in answer order
func (s *Session) Results() []Result {
	return s.results
}

// Answered reports whether the current card has been answered but not yet
// advanced past
func (s *Session) Answered() bool {
	return s.answered
}

// StartedAt returns when the session was created
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// CurrentCard returns the card at the current position
func (s *Session) CurrentCard() (models.Flashcard, error) {
	if s.status == StatusComplete {
		return models.Flashcard{}, ErrSessionComplete
	}
	return s.deck[s.position], nil
}

// Choices returns the candidate terms for the current card in choice-based
// modes. The slice is stable until the session advances.
func (s *Session) Choices() []string {
	return s.choices
}

// SubmitAnswer evaluates the answer against the current card and records
// the result. Matching ignores case and surrounding whitespace. In timed
// mode the session advances immediately; other modes require an explicit
// Advance so the surface can show the outcome first.
func (s *Session) SubmitAnswer(answer string) (bool, error) {
	if s.status == StatusComplete {
		return false, ErrSessionComplete
	}
	if s.answered {
		return false, ErrAlreadyAnswered
	}

	card := s.deck[s.position]
	correct := answersMatch(answer, card.Term)

	s.results = append(s.results, Result{Card: card, Answer: answer, Correct: correct})
	if correct {
		s.score++
	}
	s.answered = true

	if s.mode == ModeTimedMultipleChoice {
		if err := s.Advance(); err != nil {
			return correct, err
		}
	}
	return correct, nil
}

// Advance moves to the next card, or completes the session after the last
// one. Per-question state is cleared and choices are regenerated.
func (s *Session) Advance() error {
	if s.status == StatusComplete {
		return ErrSessionComplete
	}

	s.answered = false

	if s.position+1 == len(s.deck) {
		s.position++
		s.status = StatusComplete
		s.completedAt = time.Now()
		s.choices = nil
		return nil
	}

	s.position++
	if s.choiceBased() {
		s.choices = shuffle.BuildChoices(s.rnd, s.deck[s.position], s.deck, DistractorCount)
	}
	return nil
}

// Restart creates a fresh session over the original input cards with an
// independent shuffle. The receiver is left untouched.
func (s *Session) Restart() (*Session, error) {
	return startWith(s.source, s.mode, s.rnd)
}

// Summary returns the aggregated outcome of a completed session
func (s *Session) Summary() (*Summary, error) {
	if s.status != StatusComplete {
		return nil, ErrSessionNotComplete
	}

	total := len(s.deck)
	return &Summary{
		Score:      s.score,
		Total:      total,
		Percentage: int(math.Round(float64(s.score) / float64(total) * 100)),
		Elapsed:    s.completedAt.Sub(s.startedAt),
		Results:    s.results,
	}, nil
}

func (s *Session) choiceBased() bool {
	return s.mode == ModeMultipleChoice || s.mode == ModeTimedMultipleChoice
}

// answersMatch compares a submitted answer with the expected term,
// ignoring case and leading/trailing whitespace
func answersMatch(answer, term string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(term))
}
