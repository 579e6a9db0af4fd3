package quiz

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizzy/pkg/models"
)

func testDeck(n int) []models.Flashcard {
	cards := make([]models.Flashcard, n)
	for i := range cards {
		cards[i] = models.Flashcard{
			ID:         fmt.Sprintf("card-%d", i),
			Term:       fmt.Sprintf("term-%d", i),
			Definition: fmt.Sprintf("def-%d", i),
		}
	}
	return cards
}

func newSession(t *testing.T, cards []models.Flashcard, mode Mode, seed int64) *Session {
	t.Helper()
	s, err := startWith(cards, mode, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return s
}

func TestStartEmptyDeck(t *testing.T) {
	_, err := Start(nil, ModeTypeAnswer)
	assert.ErrorIs(t, err, ErrEmptyDeck)

	_, err = Start([]models.Flashcard{}, ModeMultipleChoice)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestTypeAnswerFullRun(t *testing.T) {
	cards := []models.Flashcard{
		{ID: "1", Term: "cat", Definition: "a small feline"},
		{ID: "2", Term: "dog", Definition: "a loyal canine"},
	}
	s := newSession(t, cards, ModeTypeAnswer, 1)

	require.Equal(t, StatusInProgress, s.Status())
	require.Len(t, s.Deck(), 2)
	assert.Nil(t, s.Choices())

	// First card: answer correctly
	first, err := s.CurrentCard()
	require.NoError(t, err)
	correct, err := s.SubmitAnswer(first.Term)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, 1, s.Score())

	require.NoError(t, s.Advance())
	assert.Equal(t, 1, s.Position())

	// Second card: answer wrong
	second, err := s.CurrentCard()
	require.NoError(t, err)
	correct, err = s.SubmitAnswer("wrong answer")
	require.NoError(t, err)
	assert.False(t, correct)

	require.NoError(t, s.Advance())
	assert.Equal(t, StatusComplete, s.Status())
	assert.Equal(t, len(s.Deck()), s.Position())

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Score)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 50, summary.Percentage)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, first.ID, summary.Results[0].Card.ID)
	assert.True(t, summary.Results[0].Correct)
	assert.Equal(t, second.ID, summary.Results[1].Card.ID)
	assert.False(t, summary.Results[1].Correct)
}

func TestAnswerMatchingIgnoresCaseAndWhitespace(t *testing.T) {
	cards := []models.Flashcard{{ID: "1", Term: "Photosynthesis", Definition: "d"}}
	s := newSession(t, cards, ModeTypeAnswer, 2)

	correct, err := s.SubmitAnswer("  photosynthesis  ")
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestSubmitTwiceWithoutAdvance(t *testing.T) {
	s := newSession(t, testDeck(3), ModeTypeAnswer, 3)

	card, err := s.CurrentCard()
	require.NoError(t, err)
	_, err = s.SubmitAnswer(card.Term)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(card.Term)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	// Score and results are unchanged by the rejected submit
	assert.Equal(t, 1, s.Score())
	assert.Len(t, s.Results(), 1)
}

func TestOperationsAfterComplete(t *testing.T) {
	s := newSession(t, testDeck(1), ModeTypeAnswer, 4)

	_, err := s.SubmitAnswer("whatever")
	require.NoError(t, err)
	require.NoError(t, s.Advance())
	require.Equal(t, StatusComplete, s.Status())

	_, err = s.CurrentCard()
	assert.ErrorIs(t, err, ErrSessionComplete)

	_, err = s.SubmitAnswer("more")
	assert.ErrorIs(t, err, ErrSessionComplete)

	assert.ErrorIs(t, s.Advance(), ErrSessionComplete)
}

func TestSummaryBeforeComplete(t *testing.T) {
	s := newSession(t, testDeck(2), ModeTypeAnswer, 5)

	_, err := s.Summary()
	assert.ErrorIs(t, err, ErrSessionNotComplete)
}

func TestDeckFixedForSessionLifetime(t *testing.T) {
	s := newSession(t, testDeck(5), ModeTypeAnswer, 6)

	order := make([]string, 0, 5)
	for _, card := range s.Deck() {
		order = append(order, card.ID)
	}

	for s.Status() == StatusInProgress {
		card, err := s.CurrentCard()
		require.NoError(t, err)
		_, err = s.SubmitAnswer(card.Term)
		require.NoError(t, err)
		require.NoError(t, s.Advance())
	}

	for i, card := range s.Deck() {
		assert.Equal(t, order[i], card.ID)
	}
}

func TestMultipleChoiceChoices(t *testing.T) {
	s := newSession(t, testDeck(10), ModeMultipleChoice, 7)

	for s.Status() == StatusInProgress {
		card, err := s.CurrentCard()
		require.NoError(t, err)

		choices := s.Choices()
		require.Len(t, choices, DistractorCount+1)
		assert.Contains(t, choices, card.Term)

		_, err = s.SubmitAnswer(choices[0])
		require.NoError(t, err)
		require.NoError(t, s.Advance())
	}

	assert.Nil(t, s.Choices())
}

func TestMultipleChoiceSmallDeck(t *testing.T) {
	s := newSession(t, testDeck(2), ModeMultipleChoice, 8)

	assert.Len(t, s.Choices(), 2)
}

func TestTimedModeAutoAdvances(t *testing.T) {
	s := newSession(t, testDeck(3), ModeTimedMultipleChoice, 9)

	card, err := s.CurrentCard()
	require.NoError(t, err)
	correct, err := s.SubmitAnswer(card.Term)
	require.NoError(t, err)
	assert.True(t, correct)

	// No explicit Advance needed
	assert.Equal(t, 1, s.Position())
	assert.False(t, s.Answered())

	next, err := s.CurrentCard()
	require.NoError(t, err)
	assert.NotEqual(t, card.ID, next.ID)
}

func TestTimedModeCompletesOnLastAnswer(t *testing.T) {
	s := newSession(t, testDeck(2), ModeTimedMultipleChoice, 10)

	for i := 0; i < 2; i++ {
		card, err := s.CurrentCard()
		require.NoError(t, err)
		_, err = s.SubmitAnswer(card.Term)
		require.NoError(t, err)
	}

	assert.Equal(t, StatusComplete, s.Status())

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Score)
	assert.Equal(t, 100, summary.Percentage)
}

func TestSummaryPercentageRounds(t *testing.T) {
	s := newSession(t, testDeck(3), ModeTypeAnswer, 11)

	answers := []bool{true, true, false}
	for _, right := range answers {
		card, err := s.CurrentCard()
		require.NoError(t, err)
		answer := card.Term
		if !right {
			answer = "nope"
		}
		_, err = s.SubmitAnswer(answer)
		require.NoError(t, err)
		require.NoError(t, s.Advance())
	}

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 67, summary.Percentage)
}

func TestSummaryElapsed(t *testing.T) {
	s := newSession(t, testDeck(1), ModeTypeAnswer, 12)

	_, err := s.SubmitAnswer("x")
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	s.startedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.completedAt = s.startedAt.Add(4300 * time.Millisecond)

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 4300*time.Millisecond, summary.Elapsed)
}

func TestRestartIsIndependent(t *testing.T) {
	cards := testDeck(5)
	s := newSession(t, cards, ModeTypeAnswer, 13)

	// Play partway through
	card, err := s.CurrentCard()
	require.NoError(t, err)
	_, err = s.SubmitAnswer(card.Term)
	require.NoError(t, err)
	require.NoError(t, s.Advance())

	fresh, err := s.Restart()
	require.NoError(t, err)

	// The original session is untouched
	assert.Equal(t, 1, s.Position())
	assert.Equal(t, 1, s.Score())

	// The new session starts clean over the same cards
	assert.Equal(t, 0, fresh.Position())
	assert.Equal(t, 0, fresh.Score())
	assert.Equal(t, StatusInProgress, fresh.Status())
	require.Len(t, fresh.Deck(), len(cards))

	seen := make(map[string]bool, len(fresh.Deck()))
	for _, c := range fresh.Deck() {
		seen[c.ID] = true
	}
	for _, c := range cards {
		assert.True(t, seen[c.ID])
	}
}
