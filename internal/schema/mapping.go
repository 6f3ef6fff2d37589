package schema

import (
	"fmt"
	"strings"
)

// Field is a canonical question field key.
type Field string

const (
	FieldID         Field = "id"
	FieldSource     Field = "source"
	FieldYear       Field = "year"
	FieldSubject    Field = "subject"
	FieldTopic      Field = "topic"
	FieldDifficulty Field = "difficulty"
	FieldPassage    Field = "passage"
	FieldPrompt     Field = "prompt"
	FieldChoices    Field = "choices"
	FieldAnswerKey  Field = "answer_key"
)

// Fields is the fixed expected-key list, in the column order used for new sheets.
var Fields = []Field{
	FieldID, FieldSource, FieldYear, FieldSubject, FieldTopic,
	FieldDifficulty, FieldPassage, FieldPrompt, FieldChoices, FieldAnswerKey,
}

// Required fields must be present for the bank to be usable.
var Required = []Field{FieldID, FieldPrompt}

// aliases maps normalized header text to its canonical field.
var aliases = map[string]Field{
	"id":           FieldID,
	"codigo":       FieldID,
	"fonte":        FieldSource,
	"source":       FieldSource,
	"ano":          FieldYear,
	"year":         FieldYear,
	"disciplina":   FieldSubject,
	"subject":      FieldSubject,
	"conteudo":     FieldTopic,
	"topic":        FieldTopic,
	"dificuldade":  FieldDifficulty,
	"difficulty":   FieldDifficulty,
	"texto_base":   FieldPassage,
	"texto base":   FieldPassage,
	"passage":      FieldPassage,
	"enunciado":    FieldPrompt,
	"comando":      FieldPrompt,
	"prompt":       FieldPrompt,
	"alternativas": FieldChoices,
	"choices":      FieldChoices,
	"gabarito":     FieldAnswerKey,
	"answer_key":   FieldAnswerKey,
	"answer key":   FieldAnswerKey,
}

// Mapping resolves canonical fields to column positions of one table header.
type Mapping struct {
	index map[Field]int

	// Detected lists every normalized header, in column order.
	Detected []string `json:"detected"`

	// Unknown lists normalized headers that match no field.
	Unknown []string `json:"unknown,omitempty"`

	// Duplicates lists headers ignored because an earlier column already mapped their field.
	Duplicates []string `json:"duplicates,omitempty"`
}

// Column returns the column position of f.
func (m *Mapping) Column(f Field) (int, bool) {
	i, ok := m.index[f]
	return i, ok
}

// Has reports whether f is mapped.
func (m *Mapping) Has(f Field) bool {
	_, ok := m.index[f]
	return ok
}

// Value returns the cell of row mapped to f, or "" when the field or cell is absent.
func (m *Mapping) Value(row []string, f Field) string {
	i, ok := m.index[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// MismatchError reports required fields that are missing after normalization.
type MismatchError struct {
	Missing  []Field
	Detected []string
}

func (e *MismatchError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		missing[i] = string(f)
	}
	return fmt.Sprintf("schema mismatch: missing %s (detected: %s)",
		strings.Join(missing, ", "), strings.Join(e.Detected, ", "))
}

// Map builds the column mapping for headers. It returns the mapping together with a
// *MismatchError when a required field is absent, so callers can still report what was found.
func Map(headers []string) (*Mapping, error) {
	m := &Mapping{
		index:    make(map[Field]int, len(Fields)),
		Detected: NormalizeHeaders(headers),
	}

	for i, key := range m.Detected {
		f, ok := aliases[key]
		if !ok {
			if key != "" {
				m.Unknown = append(m.Unknown, key)
			}
			continue
		}
		if _, taken := m.index[f]; taken {
			m.Duplicates = append(m.Duplicates, headers[i])
			continue
		}
		m.index[f] = i
	}

	var missing []Field
	for _, f := range Required {
		if !m.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return m, &MismatchError{Missing: missing, Detected: m.Detected}
	}
	return m, nil
}

// Header returns the canonical header used when a store has no header row yet.
func Header() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = string(f)
	}
	return out
}

// Missing returns the canonical fields not mapped, in Fields order.
func (m *Mapping) Missing() []Field {
	var out []Field
	for _, f := range Fields {
		if !m.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
