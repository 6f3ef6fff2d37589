package bank

import (
	"math/rand"
	"sort"

	"github.com/stemsi/questbank/internal/model"
)

// Sample draws n distinct questions using seed and returns them in input order. The
// same questions, n and seed always give the same result. n <= 0 yields an empty
// sample, n >= len(questions) yields every question.
func Sample(questions []model.Question, n int, seed int64) []model.Question {
	if n <= 0 {
		return []model.Question{}
	}
	if n >= len(questions) {
		out := make([]model.Question, len(questions))
		copy(out, questions)
		return out
	}

	r := rand.New(rand.NewSource(seed))
	picked := r.Perm(len(questions))[:n]
	sort.Ints(picked)

	out := make([]model.Question, n)
	for i, idx := range picked {
		out[i] = questions[idx]
	}
	return out
}
