package document

import (
	"errors"
	"fmt"
)

var (
	// ErrBuildOrder is returned when sections are added out of order or twice.
	ErrBuildOrder = errors.New("document sections added out of order")

	// ErrNothingSelected is returned when a document would contain no question.
	ErrNothingSelected = errors.New("no question selected")
)

type stage int

const (
	stageEmpty stage = iota
	stageHeader
	stageQuestions
	stageGrid
	stageKey
	stageBuilt
)

// Builder assembles a Document section by section. Sections must be added in the
// order header, questions, answer grid, answer key; the last two are optional.
type Builder struct {
	doc   Document
	stage stage
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddHeader sets the header. It must be the first call.
func (b *Builder) AddHeader(h Header) error {
	if b.stage != stageEmpty {
		return fmt.Errorf("%w: header after %s", ErrBuildOrder, b.stage)
	}
	b.doc.Header = h
	b.stage = stageHeader
	return nil
}

// AddQuestionBlock appends a question. Its position is assigned here.
func (b *Builder) AddQuestionBlock(q QuestionBlock) error {
	if b.stage != stageHeader && b.stage != stageQuestions {
		return fmt.Errorf("%w: question after %s", ErrBuildOrder, b.stage)
	}
	q.Position = len(b.doc.Questions) + 1
	b.doc.Questions = append(b.doc.Questions, q)
	b.stage = stageQuestions
	return nil
}

func (b *Builder) AddAnswerGrid(g AnswerGrid) error {
	if b.stage != stageQuestions {
		return fmt.Errorf("%w: answer grid after %s", ErrBuildOrder, b.stage)
	}
	b.doc.Grid = &g
	b.stage = stageGrid
	return nil
}

func (b *Builder) AddAnswerKey(k AnswerKey) error {
	if b.stage != stageQuestions && b.stage != stageGrid {
		return fmt.Errorf("%w: answer key after %s", ErrBuildOrder, b.stage)
	}
	b.doc.Key = &k
	b.stage = stageKey
	return nil
}

// Build returns the finished document. The builder cannot be reused afterwards.
func (b *Builder) Build() (*Document, error) {
	switch b.stage {
	case stageEmpty:
		return nil, fmt.Errorf("%w: missing header", ErrBuildOrder)
	case stageHeader:
		return nil, ErrNothingSelected
	case stageBuilt:
		return nil, fmt.Errorf("%w: already built", ErrBuildOrder)
	}
	b.stage = stageBuilt
	doc := b.doc
	return &doc, nil
}

func (s stage) String() string {
	switch s {
	case stageEmpty:
		return "start"
	case stageHeader:
		return "header"
	case stageQuestions:
		return "questions"
	case stageGrid:
		return "answer grid"
	case stageKey:
		return "answer key"
	default:
		return "build"
	}
}
