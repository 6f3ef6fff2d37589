// Package bank holds the pure decision logic between the question store and the
// document composer: filtering, selection by id and seeded sampling.
package bank

import (
	"sort"

	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/schema"
)

// Filter returns the questions that satisfy every non-empty predicate of f, in input
// order. Values are compared after normalization, so "Matemática" matches "matematica".
// The input slice is never modified.
func Filter(questions []model.Question, f model.QuestionFilter) []model.Question {
	subjects := normalizedSet(f.Subjects)
	topics := normalizedSet(f.Topics)
	sources := normalizedSet(f.Sources)
	years := normalizedSet(f.Years)
	difficulties := make(map[model.Difficulty]struct{}, len(f.Difficulties))
	for _, d := range f.Difficulties {
		difficulties[d] = struct{}{}
		// Also accept labels such as "Fácil" coming straight from a form.
		if parsed, ok := model.ParseDifficulty(schema.Normalize(string(d))); ok {
			difficulties[parsed] = struct{}{}
		}
	}

	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if !member(subjects, q.Subject) || !member(topics, q.Topic) || !member(sources, q.Source) || !member(years, q.Year) {
			continue
		}
		if len(difficulties) > 0 {
			if _, ok := difficulties[q.Difficulty]; !ok {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

// Options returns the distinct non-empty values of each filterable field. Strings are
// sorted alphabetically, difficulties by scale.
func Options(questions []model.Question) model.FilterOptions {
	subjects := distinct{}
	topics := distinct{}
	sources := distinct{}
	years := distinct{}
	seenDifficulty := map[model.Difficulty]bool{}

	opts := model.FilterOptions{Difficulties: []model.Difficulty{}}
	for _, q := range questions {
		subjects.add(q.Subject)
		topics.add(q.Topic)
		sources.add(q.Source)
		years.add(q.Year)
		if q.Difficulty != model.DifficultyUnspecified && !seenDifficulty[q.Difficulty] {
			seenDifficulty[q.Difficulty] = true
			opts.Difficulties = append(opts.Difficulties, q.Difficulty)
		}
	}
	opts.Subjects = subjects.sorted()
	opts.Topics = topics.sorted()
	opts.Sources = sources.sorted()
	opts.Years = years.sorted()
	sort.Slice(opts.Difficulties, func(i, j int) bool {
		return opts.Difficulties[i].Rank() < opts.Difficulties[j].Rank()
	})
	return opts
}

// normalizedSet returns nil for an empty predicate, meaning "no constraint".
func normalizedSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[schema.Normalize(v)] = struct{}{}
	}
	return set
}

func member(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[schema.Normalize(value)]
	return ok
}

// distinct keeps the first spelling seen for each normalized value.
type distinct map[string]string

func (d distinct) add(v string) {
	key := schema.Normalize(v)
	if key == "" {
		return
	}
	if _, ok := d[key]; !ok {
		d[key] = v
	}
}

func (d distinct) sorted() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = d[k]
	}
	return out
}
