package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/schema"
	"github.com/stemsi/questbank/internal/sheet"
)

// Store errors.
var (
	ErrStoreUnavailable = errors.New("question store unavailable")
	ErrStoreReadOnly    = errors.New("question store is read-only")
)

// choiceSeparator joins the choices of one question inside a single cell.
const choiceSeparator = ";"

// SkippedRow describes a data row that could not be decoded.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ReadReport describes what ReadAll found besides the decoded questions.
type ReadReport struct {
	Mapping           *schema.Mapping `json:"mapping,omitempty"`
	Skipped           []SkippedRow    `json:"skipped,omitempty"`
	UnknownDifficulty []string        `json:"unknown_difficulty,omitempty"`
}

// QuestionRepository adapts a tabular source to the question schema.
type QuestionRepository struct {
	source sheet.Source
	mu     sync.Mutex
	log    zerolog.Logger
}

// NewQuestionRepository creates a new QuestionRepository over source.
func NewQuestionRepository(source sheet.Source, log zerolog.Logger) *QuestionRepository {
	return &QuestionRepository{
		source: source,
		log:    log.With().Str("component", "question_repository").Logger(),
	}
}

// ReadAll returns every question of the store in storage order.
// A source failure is reported as ErrStoreUnavailable; a header without the required
// fields is reported as *schema.MismatchError together with the report.
func (r *QuestionRepository) ReadAll(ctx context.Context) ([]model.Question, *ReadReport, error) {
	tbl, err := r.source.Read(ctx)
	if err != nil {
		return nil, &ReadReport{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(tbl.Header) == 0 {
		return nil, &ReadReport{}, nil
	}

	m, err := schema.Map(tbl.Header)
	report := &ReadReport{Mapping: m}
	if err != nil {
		return nil, report, err
	}

	questions := make([]model.Question, 0, len(tbl.Rows))
	seen := make(map[int]int, len(tbl.Rows))
	for i, row := range tbl.Rows {
		rowNum := i + 2 // header is row 1
		id, err := parseID(m.Value(row, schema.FieldID))
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedRow{Row: rowNum, Reason: "invalid id"})
			continue
		}
		if first, dup := seen[id]; dup {
			report.Skipped = append(report.Skipped, SkippedRow{
				Row:    rowNum,
				Reason: fmt.Sprintf("duplicate id %d (first at row %d)", id, first),
			})
			continue
		}
		seen[id] = rowNum

		q := decodeRow(m, row)
		q.ID = id

		rawDifficulty := m.Value(row, schema.FieldDifficulty)
		d, ok := model.ParseDifficulty(schema.Normalize(rawDifficulty))
		if !ok {
			report.UnknownDifficulty = append(report.UnknownDifficulty, rawDifficulty)
		}
		q.Difficulty = d

		questions = append(questions, q)
	}
	return questions, report, nil
}

// Append stores q under the next available id and returns the stored question.
// Appends are serialized within this process only; two processes appending at once
// may compute the same id.
func (r *QuestionRepository) Append(ctx context.Context, q model.Question) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tbl, err := r.source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	header := tbl.Header
	if len(header) == 0 {
		header = schema.Header()
	}
	m, err := schema.Map(header)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		if id, err := parseID(m.Value(row, schema.FieldID)); err == nil {
			ids = append(ids, id)
		}
	}
	q.ID = NextID(ids)

	row, dropped := encodeRow(m, len(header), q)
	if len(dropped) > 0 {
		r.log.Warn().Strs("fields", dropped).Int("id", q.ID).Msg("store has no column for fields; values not saved")
	}

	if err := r.source.Append(ctx, header, row); err != nil {
		if errors.Is(err, sheet.ErrReadOnly) {
			return nil, ErrStoreReadOnly
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	r.log.Info().Int("id", q.ID).Str("subject", q.Subject).Msg("Question appended")
	return &q, nil
}

// NextID returns max(ids)+1, or 1 for an empty store.
func NextID(ids []int) int {
	next := 1
	for _, id := range ids {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// SplitChoices decodes the choices cell: parts split on ';' and trimmed.
func SplitChoices(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, choiceSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// JoinChoices encodes choices into one cell.
func JoinChoices(choices []string) string {
	return strings.Join(choices, choiceSeparator)
}

func decodeRow(m *schema.Mapping, row []string) model.Question {
	return model.Question{
		Source:    m.Value(row, schema.FieldSource),
		Year:      m.Value(row, schema.FieldYear),
		Subject:   m.Value(row, schema.FieldSubject),
		Topic:     m.Value(row, schema.FieldTopic),
		Passage:   m.Value(row, schema.FieldPassage),
		Prompt:    m.Value(row, schema.FieldPrompt),
		Choices:   SplitChoices(m.Value(row, schema.FieldChoices)),
		AnswerKey: m.Value(row, schema.FieldAnswerKey),
	}
}

func encodeRow(m *schema.Mapping, width int, q model.Question) ([]string, []string) {
	values := map[schema.Field]string{
		schema.FieldID:         strconv.Itoa(q.ID),
		schema.FieldSource:     q.Source,
		schema.FieldYear:       q.Year,
		schema.FieldSubject:    q.Subject,
		schema.FieldTopic:      q.Topic,
		schema.FieldDifficulty: q.Difficulty.Label(),
		schema.FieldPassage:    q.Passage,
		schema.FieldPrompt:     q.Prompt,
		schema.FieldChoices:    JoinChoices(q.Choices),
		schema.FieldAnswerKey:  q.AnswerKey,
	}

	row := make([]string, width)
	var dropped []string
	for _, f := range schema.Fields {
		v := values[f]
		col, ok := m.Column(f)
		if !ok {
			if v != "" {
				dropped = append(dropped, string(f))
			}
			continue
		}
		row[col] = v
	}
	return row, dropped
}

// parseID accepts integer cells, including spreadsheet floats such as "3.0".
func parseID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.Atoi(raw); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return int(f), nil
}
