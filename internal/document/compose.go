package document

import (
	"fmt"
	"strings"

	"github.com/stemsi/questbank/internal/model"
)

// Compose lays out questions, in the given order, according to settings.
//
// Under objective mode each block carries at most five lettered choices taken from the
// non-empty choices of the question. The answer grid lists only objective positions and
// is omitted when there are none, whatever IncludeAnswerGrid says.
func Compose(questions []model.Question, settings model.DocumentSettings) (*Document, error) {
	if len(questions) == 0 {
		return nil, ErrNothingSelected
	}
	settings = settings.WithDefaults()

	left, err := LogoDataURI(settings.LeftLogo)
	if err != nil {
		return nil, fmt.Errorf("left logo: %w", err)
	}
	right, err := LogoDataURI(settings.RightLogo)
	if err != nil {
		return nil, fmt.Errorf("right logo: %w", err)
	}

	b := NewBuilder()
	if err := b.AddHeader(Header{
		Institution: strings.TrimSpace(settings.InstitutionName),
		Title:       settings.DocumentType.Label(),
		Subjects:    subjectsOf(questions),
		MaxScore:    strings.TrimSpace(settings.MaxScore),
		LeftLogo:    left,
		RightLogo:   right,
	}); err != nil {
		return nil, err
	}

	var grid AnswerGrid
	key := AnswerKey{Entries: make([]KeyEntry, 0, len(questions))}
	for i, q := range questions {
		pos := i + 1
		block := QuestionBlock{
			QuestionID: q.ID,
			Mode:       settings.ModeFor(q.ID),
			Passage:    strings.TrimSpace(q.Passage),
			Prompt:     q.Prompt,
		}
		if block.Objective() {
			block.Choices = letterChoices(q.Choices)
			grid.Rows = append(grid.Rows, GridRow{
				Position: pos,
				Label:    PositionLabel(pos),
				Letters:  model.ChoiceLetters[:],
			})
		}
		if err := b.AddQuestionBlock(block); err != nil {
			return nil, err
		}

		answer := strings.TrimSpace(q.AnswerKey)
		key.Entries = append(key.Entries, KeyEntry{
			Position:  pos,
			Label:     PositionLabel(pos),
			Answer:    answer,
			Available: answer != "",
		})
	}

	if settings.IncludeAnswerGrid && len(grid.Rows) > 0 {
		if err := b.AddAnswerGrid(grid); err != nil {
			return nil, err
		}
	}
	if settings.IncludeAnswerKey {
		if err := b.AddAnswerKey(key); err != nil {
			return nil, err
		}
	}

	doc, err := b.Build()
	if err != nil {
		return nil, err
	}
	doc.Type = settings.DocumentType
	return doc, nil
}

// PositionLabel zero-pads a display position to two digits.
func PositionLabel(pos int) string {
	return fmt.Sprintf("%02d", pos)
}

// letterChoices letters the first five non-empty choices A to E.
func letterChoices(choices []string) []Choice {
	out := make([]Choice, 0, model.MaxChoices)
	for _, c := range choices {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		out = append(out, Choice{Letter: model.ChoiceLetters[len(out)], Text: c})
		if len(out) == model.MaxChoices {
			break
		}
	}
	return out
}

// subjectsOf lists distinct subjects in order of first appearance.
func subjectsOf(questions []model.Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range questions {
		s := strings.TrimSpace(q.Subject)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
