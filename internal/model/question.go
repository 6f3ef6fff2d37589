package model

import "strings"

// MaxChoices is the number of lettered options a question can carry (A–E).
const MaxChoices = 5

// ChoiceLetters are the fixed, ordered labels for choices and answer bubbles.
var ChoiceLetters = [MaxChoices]string{"A", "B", "C", "D", "E"}

// Question is one row of the question bank.
type Question struct {
	ID         int        `json:"id"`
	Source     string     `json:"source"`
	Year       string     `json:"year"`
	Subject    string     `json:"subject"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Passage    string     `json:"passage,omitempty"`
	Prompt     string     `json:"prompt"`
	Choices    []string   `json:"choices,omitempty"`
	AnswerKey  string     `json:"answer_key,omitempty"`
}

// IsObjective reports whether the question has at least one non-empty choice.
func (q Question) IsObjective() bool {
	for _, c := range q.Choices {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

// Difficulty is the closed difficulty scale of the bank.
type Difficulty string

const (
	DifficultyUnspecified Difficulty = ""
	DifficultyEasy        Difficulty = "Easy"
	DifficultyMedium      Difficulty = "Medium"
	DifficultyHard        Difficulty = "Hard"
)

// Difficulties lists the scale in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// difficultyLabels maps accent-free, lowercased labels seen in spreadsheets to the scale.
var difficultyLabels = map[string]Difficulty{
	"easy":    DifficultyEasy,
	"facil":   DifficultyEasy,
	"medium":  DifficultyMedium,
	"medio":   DifficultyMedium,
	"media":   DifficultyMedium,
	"hard":    DifficultyHard,
	"dificil": DifficultyHard,
}

// ParseDifficulty resolves an already-normalized label. The second return value is
// false for non-empty labels outside the scale.
func ParseDifficulty(normalized string) (Difficulty, bool) {
	if normalized == "" {
		return DifficultyUnspecified, true
	}
	d, ok := difficultyLabels[normalized]
	return d, ok
}

// Rank orders difficulties for option lists; unspecified sorts last.
func (d Difficulty) Rank() int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return len(Difficulties)
}

// Label returns the pt-BR display label.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Fácil"
	case DifficultyMedium:
		return "Médio"
	case DifficultyHard:
		return "Difícil"
	default:
		return ""
	}
}

// CreateQuestionRequest is the payload for registering a question.
type CreateQuestionRequest struct {
	Source     string   `json:"source" form:"source" binding:"max=255"`
	Year       string   `json:"year" form:"year" binding:"max=32"`
	Subject    string   `json:"subject" form:"subject" binding:"required,notblank,max=120"`
	Topic      string   `json:"topic" form:"topic" binding:"max=255"`
	Difficulty string   `json:"difficulty" form:"difficulty" binding:"omitempty,difficulty"`
	Passage    string   `json:"passage" form:"passage" binding:"max=10000"`
	Prompt     string   `json:"prompt" form:"prompt" binding:"required,notblank,max=5000"`
	Choices    []string `json:"choices" form:"choices" binding:"max=5,dive,max=1000,excludes=;"`
	AnswerKey  string   `json:"answer_key" form:"answer_key" binding:"max=255"`
}
