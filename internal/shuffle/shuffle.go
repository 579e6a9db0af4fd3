package shuffle

import (
	"math/rand"
	"time"

	"github.com/example/quizzy/pkg/models"
)

// NewRand returns a random generator seeded from the current time
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Cards returns a uniformly random permutation of the given cards.
// The input slice is not modified.
func Cards(rnd *rand.Rand, cards []models.Flashcard) []models.Flashcard {
	shuffled := make([]models.Flashcard, len(cards))
	copy(shuffled, cards)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// SampleDistinct draws up to count cards from pool without replacement,
// excluding the card with the given ID. If fewer than count eligible cards
// exist, all of them are returned.
func SampleDistinct(rnd *rand.Rand, pool []models.Flashcard, excludeID string, count int) []models.Flashcard {
	eligible := make([]models.Flashcard, 0, len(pool))
	for _, card := range pool {
		if card.ID != excludeID {
			eligible = append(eligible, card)
		}
	}

	rnd.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if len(eligible) > count {
		eligible = eligible[:count]
	}
	return eligible
}

// BuildChoices combines the current card's term with up to distractorCount
// terms sampled from pool, in random order. The current card is excluded
// from the distractor pool by ID only; duplicate terms in the pool may
// appear as separate choices.
func BuildChoices(rnd *rand.Rand, current models.Flashcard, pool []models.Flashcard, distractorCount int) []string {
	distractors := SampleDistinct(rnd, pool, current.ID, distractorCount)

	choices := make([]string, 0, len(distractors)+1)
	choices = append(choices, current.Term)
	for _, card := range distractors {
		choices = append(choices, card.Term)
	}

	rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
