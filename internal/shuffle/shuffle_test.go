package shuffle

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/quizzy/pkg/models"
)

func testCards(n int) []models.Flashcard {
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

func TestCardsDoesNotMutateInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	original := testCards(10)
	snapshot := make([]models.Flashcard, len(original))
	copy(snapshot, original)

	Cards(rnd, original)

	assert.Equal(t, snapshot, original)
}

func TestCardsPreservesElements(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	original := testCards(20)

	shuffled := Cards(rnd, original)

	require.Len(t, shuffled, len(original))
	seen := make(map[string]bool, len(shuffled))
	for _, card := range shuffled {
		seen[card.ID] = true
	}
	for _, card := range original {
		assert.True(t, seen[card.ID], "card %s missing after shuffle", card.ID)
	}
}

func TestCardsEmptyAndSingle(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	assert.Empty(t, Cards(rnd, nil))

	one := testCards(1)
	assert.Equal(t, one, Cards(rnd, one))
}

// All six permutations of a three-card deck should come up at roughly equal
// frequency.
func TestCardsUniformPermutations(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	cards := testCards(3)

	const trials = 6000
	counts := make(map[string]int, 6)
	for i := 0; i < trials; i++ {
		shuffled := Cards(rnd, cards)
		key := shuffled[0].ID + shuffled[1].ID + shuffled[2].ID
		counts[key]++
	}

	require.Len(t, counts, 6)
	for key, count := range counts {
		assert.InDelta(t, trials/6, count, trials/6*0.2, "permutation %s", key)
	}
}

func TestSampleDistinctExcludesByID(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	pool := testCards(10)

	for i := 0; i < 50; i++ {
		sample := SampleDistinct(rnd, pool, "card-3", 3)
		require.Len(t, sample, 3)
		for _, card := range sample {
			assert.NotEqual(t, "card-3", card.ID)
		}
	}
}

func TestSampleDistinctNoRepeats(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	pool := testCards(10)

	for i := 0; i < 50; i++ {
		sample := SampleDistinct(rnd, pool, "", 5)
		seen := make(map[string]bool, len(sample))
		for _, card := range sample {
			assert.False(t, seen[card.ID], "card %s sampled twice", card.ID)
			seen[card.ID] = true
		}
	}
}

func TestSampleDistinctShortPool(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	pool := testCards(3)

	sample := SampleDistinct(rnd, pool, "card-0", 5)
	assert.Len(t, sample, 2)
}

// Two cards sharing a term are still distinct by ID, so both may appear.
func TestSampleDistinctAllowsDuplicateTerms(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	pool := []models.Flashcard{
		{ID: "a", Term: "bank", Definition: "river edge"},
		{ID: "b", Term: "bank", Definition: "money house"},
		{ID: "c", Term: "tree", Definition: "tall plant"},
	}

	sample := SampleDistinct(rnd, pool, "c", 3)
	require.Len(t, sample, 2)
	assert.Equal(t, "bank", sample[0].Term)
	assert.Equal(t, "bank", sample[1].Term)
}

func TestBuildChoicesContainsCorrectTerm(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	pool := testCards(10)
	current := pool[4]

	for i := 0; i < 50; i++ {
		choices := BuildChoices(rnd, current, pool, 3)
		require.Len(t, choices, 4)

		occurrences := 0
		for _, choice := range choices {
			if choice == current.Term {
				occurrences++
			}
		}
		assert.Equal(t, 1, occurrences)
	}
}

func TestBuildChoicesSmallDeck(t *testing.T) {
	rnd := rand.New(rand.NewSource(10))
	pool := testCards(2)

	choices := BuildChoices(rnd, pool[0], pool, 3)
	require.Len(t, choices, 2)
	assert.Contains(t, choices, pool[0].Term)
	assert.Contains(t, choices, pool[1].Term)
}

func TestBuildChoicesSingleCard(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	pool := testCards(1)

	choices := BuildChoices(rnd, pool[0], pool, 3)
	assert.Equal(t, []string{pool[0].Term}, choices)
}
