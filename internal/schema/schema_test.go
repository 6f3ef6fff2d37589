package schema

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Conteúdo ", "conteudo"},
		{"DIFICULDADE", "dificuldade"},
		{"Texto_Base", "texto_base"},
		{"Ação", "acao"},
		{"Ênfase Ótima Último", "enfase otima ultimo"},
		{"ãâá éê í óô ú ç", "aaa ee i oo u c"},
		{"Gabarito #1", "gabarito #1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Conteúdo", " ENUNCIADO ", "Fácil", "Médio", "Difícil", "texto base",
		"Çedilha", "naïve café", "Ångström", "ß", "日本語", "\tID\n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeHeadersPreservesOrder(t *testing.T) {
	got := NormalizeHeaders([]string{"ID", "Fonte", "Ano"})
	want := []string{"id", "fonte", "ano"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMapPortugueseHeaders(t *testing.T) {
	headers := []string{"ID", "Fonte", "Ano", "Disciplina", "Conteúdo", "Dificuldade", "Texto_Base", "Comando", "Alternativas", "Gabarito", "Observação"}
	m, err := Map(headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, f := range []Field{FieldID, FieldSource, FieldYear, FieldSubject, FieldTopic, FieldDifficulty, FieldPassage, FieldPrompt, FieldChoices, FieldAnswerKey} {
		col, ok := m.Column(f)
		if !ok || col != i {
			t.Errorf("field %s mapped to %d (ok=%v), want %d", f, col, ok, i)
		}
	}
	if !reflect.DeepEqual(m.Unknown, []string{"observacao"}) {
		t.Errorf("unknown = %v", m.Unknown)
	}
	if len(m.Missing()) != 0 {
		t.Errorf("missing = %v", m.Missing())
	}
}

func TestMapReportsDuplicates(t *testing.T) {
	m, err := Map([]string{"id", "Enunciado", "Comando"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col, _ := m.Column(FieldPrompt); col != 1 {
		t.Errorf("prompt column = %d, want first occurrence 1", col)
	}
	if !reflect.DeepEqual(m.Duplicates, []string{"Comando"}) {
		t.Errorf("duplicates = %v", m.Duplicates)
	}
}

func TestMapMissingRequired(t *testing.T) {
	m, err := Map([]string{"ID", "Disciplina", "Texto"})
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if !reflect.DeepEqual(mismatch.Missing, []Field{FieldPrompt}) {
		t.Errorf("missing = %v", mismatch.Missing)
	}
	if !reflect.DeepEqual(mismatch.Detected, []string{"id", "disciplina", "texto"}) {
		t.Errorf("detected = %v", mismatch.Detected)
	}
	if m == nil || !m.Has(FieldSubject) {
		t.Error("mapping should still be returned alongside the mismatch")
	}
}

func TestValueToleratesShortRows(t *testing.T) {
	m, _ := Map([]string{"id", "prompt", "gabarito"})
	row := []string{"3", " Quanto é 2+2? "}
	if got := m.Value(row, FieldPrompt); got != "Quanto é 2+2?" {
		t.Errorf("prompt = %q", got)
	}
	if got := m.Value(row, FieldAnswerKey); got != "" {
		t.Errorf("answer key = %q, want empty", got)
	}
	if got := m.Value(row, FieldTopic); got != "" {
		t.Errorf("unmapped topic = %q, want empty", got)
	}
}
