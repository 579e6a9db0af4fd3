package feed

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/example/quizzy/internal/shuffle"
	"github.com/example/quizzy/pkg/models"
)

// ErrEmptyFeed is returned when a feed is built from sets with no cards
var ErrEmptyFeed = errors.New("feed: no cards available")

// Bookmarks is the persistence collaborator for saved cards
type Bookmarks interface {
	GetAll() ([]models.BookmarkRef, error)
	Add(setID, cardID string) error
	Remove(setID, cardID string) error
}

// Card is a flashcard tagged with its originating set
type Card struct {
	models.Flashcard
	SetID    string
	SetTitle string
}

// Feed is a non-scored browsing sequence over cards from one or more sets.
// Flip and bookmark state is tracked per card; any index may be viewed.
type Feed struct {
	cards      []Card
	flipped    map[string]bool
	bookmarked map[string]bool
	store      Bookmarks
}

// Build flattens all cards from the given sets into one shuffled feed and
// seeds bookmark state from the store
func Build(sets []models.FlashcardSet, store Bookmarks) (*Feed, error) {
	return buildWith(sets, store, shuffle.NewRand())
}

func buildWith(sets []models.FlashcardSet, store Bookmarks, rnd *rand.Rand) (*Feed, error) {
	cards := make([]Card, 0)
	for _, set := range sets {
		for _, card := range set.Cards {
			cards = append(cards, Card{Flashcard: card, SetID: set.ID, SetTitle: set.Title})
		}
	}
	if len(cards) == 0 {
		return nil, ErrEmptyFeed
	}

	rnd.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return newFeed(cards, store)
}

// BuildSaved resolves the store's bookmark list into a feed, in saved order.
// Refs whose set or card no longer exists are skipped.
func BuildSaved(sets []models.FlashcardSet, store Bookmarks) (*Feed, error) {
	refs, err := store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %v", err)
	}

	setsByID := make(map[string]models.FlashcardSet, len(sets))
	for _, set := range sets {
		setsByID[set.ID] = set
	}

	cards := make([]Card, 0, len(refs))
	for _, ref := range refs {
		set, ok := setsByID[ref.SetID]
		if !ok {
			continue
		}
		for _, card := range set.Cards {
			if card.ID == ref.CardID {
				cards = append(cards, Card{Flashcard: card, SetID: set.ID, SetTitle: set.Title})
				break
			}
		}
	}
	if len(cards) == 0 {
		return nil, ErrEmptyFeed
	}

	return newFeed(cards, store)
}

// BuildSet builds an unshuffled feed over a single set, preserving card
// order for the flip-through viewer
func BuildSet(set models.FlashcardSet, store Bookmarks) (*Feed, error) {
	if len(set.Cards) == 0 {
		return nil, ErrEmptyFeed
	}

	cards := make([]Card, 0, len(set.Cards))
	for _, card := range set.Cards {
		cards = append(cards, Card{Flashcard: card, SetID: set.ID, SetTitle: set.Title})
	}
	return newFeed(cards, store)
}

func newFeed(cards []Card, store Bookmarks) (*Feed, error) {
	f := &Feed{
		cards:      cards,
		flipped:    make(map[string]bool),
		bookmarked: make(map[string]bool),
		store:      store,
	}

	refs, err := store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %v", err)
	}
	saved := make(map[string]bool, len(refs))
	for _, ref := range refs {
		saved[ref.SetID+"/"+ref.CardID] = true
	}
	for _, card := range cards {
		if saved[card.SetID+"/"+card.ID] {
			f.bookmarked[card.ID] = true
		}
	}
	return f, nil
}

// Cards returns the feed's deck in display order
func (f *Feed) Cards() []Card {
	return f.cards
}

// Len returns the number of cards in the feed
func (f *Feed) Len() int {
	return len(f.cards)
}

// IsFlipped reports whether the card is currently showing its definition
func (f *Feed) IsFlipped(cardID string) bool {
	return f.flipped[cardID]
}

// ToggleFlip flips the card between term and definition and reports the new
// flipped state
func (f *Feed) ToggleFlip(cardID string) bool {
	if f.flipped[cardID] {
		delete(f.flipped, cardID)
		return false
	}
	f.flipped[cardID] = true
	return true
}

// CardHidden clears flip state for a card that has left the visible area
func (f *Feed) CardHidden(cardID string) {
	delete(f.flipped, cardID)
}

// IsBookmarked reports whether the card is currently bookmarked
func (f *Feed) IsBookmarked(cardID string) bool {
	return f.bookmarked[cardID]
}

// ToggleBookmark flips the card's bookmark state and persists the change
// through the store. If persistence fails the in-memory state is rolled
// back so the view never drifts from the store. Returns the new state.
func (f *Feed) ToggleBookmark(setID, cardID string) (bool, error) {
	if f.bookmarked[cardID] {
		delete(f.bookmarked, cardID)
		if err := f.store.Remove(setID, cardID); err != nil {
			f.bookmarked[cardID] = true
			return true, fmt.Errorf("failed to remove bookmark: %v", err)
		}
		return false, nil
	}

	f.bookmarked[cardID] = true
	if err := f.store.Add(setID, cardID); err != nil {
		delete(f.bookmarked, cardID)
		return false, fmt.Errorf("failed to add bookmark: %v", err)
	}
	return true, nil
}
