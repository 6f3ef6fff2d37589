package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stemsi/questbank/internal/validator"
)

func TestLoadSeedExample(t *testing.T) {
	qs, err := loadSeed("seed.example.yaml")
	if err != nil {
		t.Fatalf("loadSeed: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("questions = %d, want 2", len(qs))
	}
	if qs[0].Year != "2019" || len(qs[0].Choices) != 5 || qs[0].AnswerKey != "C" {
		t.Errorf("first = %+v", qs[0])
	}
	if len(qs[1].Choices) != 0 {
		t.Errorf("second should be subjective, got %v", qs[1].Choices)
	}
}

func TestLoadSeedRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("questions: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadSeed(path); err == nil {
		t.Fatal("expected error for empty seed")
	}
}

func TestDefaultSeedIsValid(t *testing.T) {
	validator.Setup()
	if len(defaultSeed) != 3 {
		t.Fatalf("default seed = %d questions", len(defaultSeed))
	}
	for _, q := range defaultSeed {
		if err := binding.Validator.ValidateStruct(q.request()); err != nil {
			t.Errorf("%s: %v", q.Topic, err)
		}
	}
}
