package importer

import (
	"fmt"
	"strings"

	"github.com/example/quizzy/pkg/models"
)

// LineError describes a single malformed line in pasted import text
type LineError struct {
	Line    int // 1-based line number in the original text
	Message string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseText parses pasted import text into cards, one card per line in the
// form "term, definition". The first comma splits the line; blank lines are
// skipped. Every malformed line is reported so the user can fix the whole
// paste in one pass.
func ParseText(text string) ([]models.Flashcard, []LineError) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	cards := make([]models.Flashcard, 0, len(lines))
	var errs []LineError

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		comma := strings.Index(trimmed, ",")
		if comma == -1 {
			errs = append(errs, LineError{Line: i + 1, Message: "missing comma separator"})
			continue
		}

		term := strings.TrimSpace(trimmed[:comma])
		definition := strings.TrimSpace(trimmed[comma+1:])
		if term == "" || definition == "" {
			errs = append(errs, LineError{Line: i + 1, Message: "term or definition is empty"})
			continue
		}

		cards = append(cards, models.Flashcard{Term: term, Definition: definition})
	}

	return cards, errs
}

// FormatErrors joins line errors into one user-facing message
func FormatErrors(errs []LineError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
