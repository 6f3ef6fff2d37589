package model

// NoticeCode identifies a non-fatal condition shown next to the control that caused it.
type NoticeCode string

const (
	NoticeStoreUnavailable       NoticeCode = "STORE_UNAVAILABLE"
	NoticeSchemaMismatch         NoticeCode = "SCHEMA_MISMATCH"
	NoticeUnknownQuestionID      NoticeCode = "UNKNOWN_QUESTION_ID"
	NoticeInvalidSelectionFormat NoticeCode = "INVALID_SELECTION_FORMAT"
	NoticeSkippedRow             NoticeCode = "SKIPPED_ROW"
	NoticeUnknownDifficulty      NoticeCode = "UNKNOWN_DIFFICULTY"
	NoticeDuplicateColumn        NoticeCode = "DUPLICATE_COLUMN"
	NoticeInvalidLogo            NoticeCode = "INVALID_LOGO"
	NoticeValidation             NoticeCode = "VALIDATION_ERROR"
	NoticeNothingSelected        NoticeCode = "NOTHING_SELECTED"
)

// Notice is a user-visible, non-blocking message.
type Notice struct {
	Code    NoticeCode `json:"code"`
	Target  string     `json:"target,omitempty"`
	Message string     `json:"message"`
	Details []string   `json:"details,omitempty"`
}
