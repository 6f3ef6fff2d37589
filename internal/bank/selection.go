package bank

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/stemsi/questbank/internal/model"
)

// SelectionFormatError reports ordering text that is not a list of integers.
type SelectionFormatError struct {
	Token    string
	Position int
}

func (e *SelectionFormatError) Error() string {
	return fmt.Sprintf("invalid question id %q at position %d", e.Token, e.Position)
}

// Select resolves ids against available and returns the matches in the order of ids.
// Repeated ids yield repeated entries. Ids with no match are skipped and returned in
// missing, in the order they were requested.
func Select(available []model.Question, ids []int) (selected []model.Question, missing []int) {
	byID := make(map[int]model.Question, len(available))
	for _, q := range available {
		if _, dup := byID[q.ID]; !dup {
			byID[q.ID] = q
		}
	}

	selected = make([]model.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, q)
	}
	return selected, missing
}

// ParseOrder parses manually entered ordering text such as "3, 1; 7 2". Commas,
// semicolons and whitespace all separate ids. Blank text yields an empty order.
func ParseOrder(text string) ([]int, error) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})

	ids := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		id, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &SelectionFormatError{Token: tok, Position: i + 1}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FormatOrder renders ids the way ParseOrder reads them.
func FormatOrder(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// IDs returns the ids of questions in order.
func IDs(questions []model.Question) []int {
	ids := make([]int, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
