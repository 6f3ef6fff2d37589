// Package document turns an ordered question list into a printable document and renders
// it as self-contained HTML.
package document

import (
	"html/template"

	"github.com/stemsi/questbank/internal/model"
)

// Header is the top block of every document.
type Header struct {
	Institution string       `json:"institution"`
	Title       string       `json:"title"`
	Subjects    []string     `json:"subjects"`
	MaxScore    string       `json:"max_score,omitempty"`
	LeftLogo    template.URL `json:"-"`
	RightLogo   template.URL `json:"-"`
}

// Choice is one lettered option.
type Choice struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// QuestionBlock is one rendered question. Position is the 1-based display number.
type QuestionBlock struct {
	Position   int               `json:"position"`
	QuestionID int               `json:"question_id"`
	Mode       model.DisplayMode `json:"mode"`
	Passage    string            `json:"passage,omitempty"`
	Prompt     string            `json:"prompt"`
	Choices    []Choice          `json:"choices,omitempty"`
}

// Objective reports whether the block is laid out with choices.
func (b QuestionBlock) Objective() bool {
	return b.Mode == model.DisplayModeObjective
}

// GridRow is one line of the bubble sheet.
type GridRow struct {
	Position int      `json:"position"`
	Label    string   `json:"label"`
	Letters  []string `json:"letters"`
}

// AnswerGrid is the bubble sheet section.
type AnswerGrid struct {
	Rows []GridRow `json:"rows"`
}

// KeyEntry is the expected answer of one position. Available is false when the question
// has no stored answer key.
type KeyEntry struct {
	Position  int    `json:"position"`
	Label     string `json:"label"`
	Answer    string `json:"answer,omitempty"`
	Available bool   `json:"available"`
}

// AnswerKey is the answer key section.
type AnswerKey struct {
	Entries []KeyEntry `json:"entries"`
}

// Document is a finished print document. Grid and Key are nil when omitted.
type Document struct {
	Type      model.DocumentType `json:"type"`
	Header    Header             `json:"header"`
	Questions []QuestionBlock    `json:"questions"`
	Grid      *AnswerGrid        `json:"answer_grid,omitempty"`
	Key       *AnswerKey         `json:"answer_key,omitempty"`
}
