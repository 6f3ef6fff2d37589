package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stemsi/questbank/internal/model"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func bank() []model.Question {
	return []model.Question{
		{ID: 1, Subject: "Matemática", Prompt: "Primeira", Choices: []string{"a", "b"}, AnswerKey: "A"},
		{ID: 2, Subject: "Matemática", Prompt: "Segunda", Passage: "Texto de apoio", Choices: []string{"1", "2", "3"}},
		{ID: 3, Subject: "Física", Prompt: "Terceira"},
	}
}

func TestComposeEmptySelection(t *testing.T) {
	if _, err := Compose(nil, model.DocumentSettings{}); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("err = %v, want ErrNothingSelected", err)
	}
}

func TestComposePositionsFollowInputOrder(t *testing.T) {
	qs := bank()
	doc, err := Compose([]model.Question{qs[1], qs[0]}, model.DocumentSettings{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(doc.Questions) != 2 {
		t.Fatalf("got %d blocks", len(doc.Questions))
	}
	if doc.Questions[0].QuestionID != 2 || doc.Questions[0].Position != 1 {
		t.Errorf("first block = %+v", doc.Questions[0])
	}
	if doc.Questions[1].QuestionID != 1 || doc.Questions[1].Position != 2 {
		t.Errorf("second block = %+v", doc.Questions[1])
	}

	html, err := RenderString(doc)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if strings.Index(html, "Segunda") > strings.Index(html, "Primeira") {
		t.Error("rendered order does not follow selection order")
	}
}

func TestComposeChoiceTruncation(t *testing.T) {
	seven := model.Question{ID: 7, Prompt: "Sete", Choices: []string{"1", "2", "", "3", "4", "5", "6", "7"}}
	two := model.Question{ID: 8, Prompt: "Duas", Choices: []string{"x", "y"}}

	doc, err := Compose([]model.Question{seven, two}, model.DocumentSettings{DisplayMode: model.DisplayModeObjective})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	got := doc.Questions[0].Choices
	if len(got) != 5 {
		t.Fatalf("got %d choices, want 5", len(got))
	}
	for i, c := range got {
		if c.Letter != model.ChoiceLetters[i] {
			t.Errorf("choice %d letter = %s", i, c.Letter)
		}
	}
	if got[2].Text != "3" {
		t.Errorf("empty choice should be skipped, third choice = %q", got[2].Text)
	}

	if n := len(doc.Questions[1].Choices); n != 2 {
		t.Errorf("two-choice question rendered %d choices", n)
	}
	if doc.Questions[1].Choices[1].Letter != "B" {
		t.Errorf("second letter = %s", doc.Questions[1].Choices[1].Letter)
	}
}

func TestComposeObjectiveWithoutChoices(t *testing.T) {
	doc, err := Compose([]model.Question{{ID: 1, Prompt: "Só enunciado"}}, model.DocumentSettings{IncludeAnswerGrid: true})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	b := doc.Questions[0]
	if !b.Objective() || len(b.Choices) != 0 {
		t.Errorf("block = %+v", b)
	}
	if doc.Grid == nil || len(doc.Grid.Rows) != 1 {
		t.Errorf("objective position should appear on the grid")
	}
}

func TestComposeSubjectiveOmitsGrid(t *testing.T) {
	doc, err := Compose(bank(), model.DocumentSettings{
		DisplayMode:       model.DisplayModeSubjective,
		IncludeAnswerGrid: true,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if doc.Grid != nil {
		t.Fatalf("grid present under subjective mode: %+v", doc.Grid)
	}
	for _, b := range doc.Questions {
		if len(b.Choices) != 0 {
			t.Errorf("subjective block %d has choices", b.Position)
		}
	}

	html, err := RenderString(doc)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if strings.Contains(html, "Folha de Respostas") || strings.Contains(html, `class="bubble"`) {
		t.Error("rendered document contains an answer grid")
	}
	if !strings.Contains(html, `class="answer-area"`) {
		t.Error("subjective blocks should render an answer area")
	}
}

func TestComposeGridListsObjectivePositionsOnly(t *testing.T) {
	doc, err := Compose(bank(), model.DocumentSettings{
		DisplayMode:       model.DisplayModeObjective,
		IncludeAnswerGrid: true,
		ModeOverrides:     map[int]model.DisplayMode{2: model.DisplayModeSubjective},
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if doc.Grid == nil || len(doc.Grid.Rows) != 2 {
		t.Fatalf("grid = %+v", doc.Grid)
	}
	if doc.Grid.Rows[0].Label != "01" || doc.Grid.Rows[1].Label != "03" {
		t.Errorf("grid labels = %s, %s", doc.Grid.Rows[0].Label, doc.Grid.Rows[1].Label)
	}
	if len(doc.Grid.Rows[0].Letters) != 5 {
		t.Errorf("letters = %v", doc.Grid.Rows[0].Letters)
	}

	html, _ := RenderString(doc)
	if n := strings.Count(html, `class="bubble"`); n != 10 {
		t.Errorf("rendered %d bubbles, want 10", n)
	}
	if !strings.Contains(html, "page-break answer-sheet") {
		t.Error("answer sheet should start on a new page")
	}
}

func TestComposeAnswerKey(t *testing.T) {
	doc, err := Compose(bank(), model.DocumentSettings{IncludeAnswerKey: true})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if doc.Key == nil || len(doc.Key.Entries) != 3 {
		t.Fatalf("key = %+v", doc.Key)
	}
	if e := doc.Key.Entries[0]; !e.Available || e.Answer != "A" {
		t.Errorf("entry 1 = %+v", e)
	}
	if e := doc.Key.Entries[1]; e.Available {
		t.Errorf("entry 2 should be marked not available: %+v", e)
	}

	html, _ := RenderString(doc)
	if !strings.Contains(html, "não disponível") {
		t.Error("missing answer marker not rendered")
	}
}

func TestComposeHeader(t *testing.T) {
	doc, err := Compose(bank(), model.DocumentSettings{
		InstitutionName: " Escola Estadual ",
		DocumentType:    model.DocumentTypeMock,
		MaxScore:        "10",
		LeftLogo:        pngHeader,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	h := doc.Header
	if h.Institution != "Escola Estadual" || h.Title != "Simulado" {
		t.Errorf("header = %+v", h)
	}
	if len(h.Subjects) != 2 || h.Subjects[0] != "Matemática" || h.Subjects[1] != "Física" {
		t.Errorf("subjects = %q", h.Subjects)
	}
	if !strings.HasPrefix(string(h.LeftLogo), "data:image/png;base64,") {
		t.Errorf("left logo = %.40s", h.LeftLogo)
	}
	if h.RightLogo != "" {
		t.Errorf("right logo should be empty")
	}

	html, _ := RenderString(doc)
	if !strings.Contains(html, `src="data:image/png;base64,`) {
		t.Error("logo not inlined as data URI")
	}
	if got := Filename(doc); got != "simulado-escola-estadual.html" {
		t.Errorf("Filename = %q", got)
	}
}

func TestComposeRejectsNonImageLogo(t *testing.T) {
	_, err := Compose(bank(), model.DocumentSettings{RightLogo: []byte("just some text")})
	if !errors.Is(err, ErrInvalidLogo) {
		t.Fatalf("err = %v, want ErrInvalidLogo", err)
	}
}

func TestBuilderOrder(t *testing.T) {
	b := NewBuilder()
	if err := b.AddQuestionBlock(QuestionBlock{}); !errors.Is(err, ErrBuildOrder) {
		t.Fatalf("question before header: %v", err)
	}
	if err := b.AddHeader(Header{Title: "Prova"}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddAnswerGrid(AnswerGrid{}); !errors.Is(err, ErrBuildOrder) {
		t.Fatalf("grid before questions: %v", err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrNothingSelected) {
		t.Fatalf("build without questions: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := b.AddQuestionBlock(QuestionBlock{Prompt: "q"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.AddAnswerKey(AnswerKey{}); err != nil {
		t.Fatal(err)
	}
	if err := b.AddAnswerGrid(AnswerGrid{}); !errors.Is(err, ErrBuildOrder) {
		t.Fatalf("grid after key: %v", err)
	}

	doc, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Questions[1].Position != 2 {
		t.Errorf("positions = %d, %d", doc.Questions[0].Position, doc.Questions[1].Position)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuildOrder) {
		t.Fatalf("second build: %v", err)
	}
}

func TestFilenameFallback(t *testing.T) {
	if got := Filename(&Document{}); got != "documento.html" {
		t.Errorf("Filename = %q", got)
	}
}
