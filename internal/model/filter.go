package model

// QuestionFilter holds the categorical predicates of the filter panel.
// An empty slice places no constraint on its field.
type QuestionFilter struct {
	Subjects     []string     `json:"subjects,omitempty" form:"subject"`
	Topics       []string     `json:"topics,omitempty" form:"topic"`
	Difficulties []Difficulty `json:"difficulties,omitempty" form:"difficulty"`
	Sources      []string     `json:"sources,omitempty" form:"source"`
	Years        []string     `json:"years,omitempty" form:"year"`
}

// IsEmpty reports whether no field is constrained.
func (f QuestionFilter) IsEmpty() bool {
	return len(f.Subjects) == 0 && len(f.Topics) == 0 && len(f.Difficulties) == 0 && len(f.Sources) == 0 &&
		len(f.Years) == 0
}

// FilterOptions are the distinct values available to each filter widget.
type FilterOptions struct {
	Subjects     []string     `json:"subjects"`
	Topics       []string     `json:"topics"`
	Difficulties []Difficulty `json:"difficulties"`
	Sources      []string     `json:"sources"`
	Years        []string     `json:"years"`
}

// SampleRequest asks for n questions drawn from the filtered set.
type SampleRequest struct {
	Size int   `json:"size" form:"sample_size" binding:"min=0,max=500"`
	Seed int64 `json:"seed" form:"sample_seed"`
}
