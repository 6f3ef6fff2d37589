package model

import "time"

// ExportEvent records one finished export for the download history.
type ExportEvent struct {
	SessionID    string       `json:"session_id,omitempty"`
	DocumentType DocumentType `json:"document_type"`
	DisplayMode  DisplayMode  `json:"display_mode"`
	QuestionIDs  []int        `json:"question_ids"`
	Warnings     int          `json:"warnings"`
	Disposition  string       `json:"disposition"`
	CreatedAt    time.Time    `json:"created_at"`
}
