package model

// DocumentType is the kind of printable document being produced.
type DocumentType string

const (
	DocumentTypeExam     DocumentType = "Exam"
	DocumentTypeActivity DocumentType = "Activity"
	DocumentTypeMock     DocumentType = "Mock"
)

// Label returns the pt-BR title used in the document header.
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypeActivity:
		return "Atividade"
	case DocumentTypeMock:
		return "Simulado"
	default:
		return "Prova"
	}
}

// DisplayMode controls how a question is laid out on paper.
type DisplayMode string

const (
	DisplayModeObjective  DisplayMode = "Objective"
	DisplayModeSubjective DisplayMode = "Subjective"
)

// Valid reports whether m is one of the known modes.
func (m DisplayMode) Valid() bool {
	return m == DisplayModeObjective || m == DisplayModeSubjective
}

// DocumentSettings holds the caller's composition options.
type DocumentSettings struct {
	InstitutionName   string       `json:"institution_name" form:"institution_name" binding:"max=200"`
	MaxScore          string       `json:"max_score" form:"max_score" binding:"max=32"`
	DocumentType      DocumentType `json:"document_type" form:"document_type" binding:"omitempty,oneof=Exam Activity Mock"`
	DisplayMode       DisplayMode  `json:"display_mode" form:"display_mode" binding:"omitempty,oneof=Objective Subjective"`
	IncludeAnswerGrid bool         `json:"include_answer_grid" form:"include_answer_grid"`
	IncludeAnswerKey  bool         `json:"include_answer_key" form:"include_answer_key"`

	// ModeOverrides sets a display mode per question id, taking precedence over DisplayMode.
	ModeOverrides map[int]DisplayMode `json:"mode_overrides,omitempty" form:"-"`
	LeftLogo      []byte              `json:"left_logo,omitempty" form:"-"`
	RightLogo     []byte              `json:"right_logo,omitempty" form:"-"`
}

// WithDefaults fills unset enumerations.
func (s DocumentSettings) WithDefaults() DocumentSettings {
	if s.DocumentType == "" {
		s.DocumentType = DocumentTypeExam
	}
	if !s.DisplayMode.Valid() {
		s.DisplayMode = DisplayModeObjective
	}
	return s
}

// ModeFor returns the effective display mode of the question with the given id.
func (s DocumentSettings) ModeFor(questionID int) DisplayMode {
	if m, ok := s.ModeOverrides[questionID]; ok && m.Valid() {
		return m
	}
	if !s.DisplayMode.Valid() {
		return DisplayModeObjective
	}
	return s.DisplayMode
}
