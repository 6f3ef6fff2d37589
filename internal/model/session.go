package model

import "time"

// SessionState is the per-user state of the filter/selection surface. It is serialized
// whole on every interaction and never shared between sessions.
type SessionState struct {
	ID        string           `json:"id"`
	Filters   QuestionFilter   `json:"filters"`
	OrderText string           `json:"order_text"`
	Selection []int            `json:"selection"`
	Sample    *SampleRequest   `json:"sample,omitempty"`
	Document  DocumentSettings `json:"document"`

	// Notices hold messages produced by the last update only.
	Notices   []Notice  `json:"notices,omitempty"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionUpdate is one interaction applied to a SessionState. Nil fields are left as is.
type SessionUpdate struct {
	Filters   *QuestionFilter   `json:"filters,omitempty"`
	OrderText *string           `json:"order_text,omitempty"`
	Sample    *SampleRequest    `json:"sample,omitempty"`
	Document  *DocumentSettings `json:"document,omitempty"`
	Reset     bool              `json:"reset,omitempty"`
}
