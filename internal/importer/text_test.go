package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextValid(t *testing.T) {
	text := "cat, a small feline\ndog, a loyal canine"

	cards, errs := ParseText(text)
	require.Empty(t, errs)
	require.Len(t, cards, 2)
	assert.Equal(t, "cat", cards[0].Term)
	assert.Equal(t, "a small feline", cards[0].Definition)
	assert.Equal(t, "dog", cards[1].Term)
	assert.Equal(t, "a loyal canine", cards[1].Definition)
}

// Only the first comma separates term from definition; later commas belong
// to the definition.
func TestParseTextFirstCommaSplits(t *testing.T) {
	cards, errs := ParseText("ambiguous, having more than one meaning, unclear")
	require.Empty(t, errs)
	require.Len(t, cards, 1)
	assert.Equal(t, "ambiguous", cards[0].Term)
	assert.Equal(t, "having more than one meaning, unclear", cards[0].Definition)
}

func TestParseTextSkipsBlankLines(t *testing.T) {
	text := "cat, feline\n\n   \ndog, canine\n"

	cards, errs := ParseText(text)
	require.Empty(t, errs)
	assert.Len(t, cards, 2)
}

func TestParseTextCollectsAllErrors(t *testing.T) {
	text := "cat, feline\nno separator here\n, empty term\ndog, canine\nempty definition,"

	cards, errs := ParseText(text)
	require.Len(t, cards, 2)
	require.Len(t, errs, 3)

	assert.Equal(t, 2, errs[0].Line)
	assert.Equal(t, "missing comma separator", errs[0].Message)
	assert.Equal(t, 3, errs[1].Line)
	assert.Equal(t, "term or definition is empty", errs[1].Message)
	assert.Equal(t, 5, errs[2].Line)
	assert.Equal(t, "term or definition is empty", errs[2].Message)
}

func TestParseTextWhitespaceTrimmed(t *testing.T) {
	cards, errs := ParseText("  cat ,   a small feline  ")
	require.Empty(t, errs)
	require.Len(t, cards, 1)
	assert.Equal(t, "cat", cards[0].Term)
	assert.Equal(t, "a small feline", cards[0].Definition)
}

func TestFormatErrors(t *testing.T) {
	errs := []LineError{
		{Line: 2, Message: "missing comma separator"},
		{Line: 4, Message: "term or definition is empty"},
	}
	assert.Equal(t, "line 2: missing comma separator; line 4: term or definition is empty", FormatErrors(errs))
}
