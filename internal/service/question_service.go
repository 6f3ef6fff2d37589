package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/bank"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/repository"
	"github.com/stemsi/questbank/internal/schema"
)

// ErrBlankQuestion is returned by Register when the subject or prompt is empty after
// trimming.
var ErrBlankQuestion = errors.New("question subject and prompt are required")

// Snapshot is one read of the question store. Err is nil when the bank is usable;
// otherwise it wraps repository.ErrStoreUnavailable or is a *schema.MismatchError, and
// Questions is empty.
type Snapshot struct {
	Questions []model.Question
	Notices   []model.Notice
	Err       error
}

// Mismatch returns the schema mismatch of the read, if any.
func (s *Snapshot) Mismatch() (*schema.MismatchError, bool) {
	var m *schema.MismatchError
	ok := errors.As(s.Err, &m)
	return m, ok
}

// QuestionList is the filtered view of the bank.
type QuestionList struct {
	Questions []model.Question    `json:"questions"`
	Options   model.FilterOptions `json:"options"`
	Total     int                 `json:"total"`
}

// QuestionService handles question business logic.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	timeout      time.Duration
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService. timeout bounds each store call;
// zero means no bound.
func NewQuestionService(questionRepo *repository.QuestionRepository, timeout time.Duration, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		timeout:      timeout,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// Load reads the whole store. Store failures never escape as errors: they degrade the
// snapshot to an empty bank with a notice.
func (s *QuestionService) Load(ctx context.Context) *Snapshot {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	questions, report, err := s.questionRepo.ReadAll(ctx)
	snap := &Snapshot{Questions: questions, Notices: readReportNotices(report)}
	if snap.Questions == nil {
		snap.Questions = []model.Question{}
	}

	var mismatch *schema.MismatchError
	switch {
	case err == nil:
	case errors.As(err, &mismatch):
		s.log.Warn().
			Strs("detected", mismatch.Detected).
			Interface("missing", mismatch.Missing).
			Msg("Question store schema mismatch")
		snap.Questions = []model.Question{}
		snap.Notices = append(snap.Notices, schemaMismatchNotice(mismatch))
		snap.Err = err
	default:
		s.log.Warn().Err(err).Msg("Question store unavailable, serving empty bank")
		snap.Questions = []model.Question{}
		snap.Notices = append(snap.Notices, storeUnavailableNotice())
		snap.Err = err
	}
	return snap
}

// List returns the questions passing f together with the options of the whole bank.
func (s *QuestionService) List(ctx context.Context, f model.QuestionFilter) (*QuestionList, []model.Notice) {
	snap := s.Load(ctx)
	filtered := bank.Filter(snap.Questions, f)
	return &QuestionList{
		Questions: filtered,
		Options:   bank.Options(snap.Questions),
		Total:     len(snap.Questions),
	}, snap.Notices
}

// Sample draws from the questions passing f.
func (s *QuestionService) Sample(ctx context.Context, f model.QuestionFilter, req model.SampleRequest) (*QuestionList, []model.Notice) {
	list, notices := s.List(ctx, f)
	list.Questions = bank.Sample(list.Questions, req.Size, req.Seed)
	return list, notices
}

// Register appends a new question and returns it with its assigned id.
func (s *QuestionService) Register(ctx context.Context, req model.CreateQuestionRequest) (*model.Question, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	difficulty, _ := model.ParseDifficulty(schema.Normalize(req.Difficulty))
	q := model.Question{
		Source:     strings.TrimSpace(req.Source),
		Year:       strings.TrimSpace(req.Year),
		Subject:    strings.TrimSpace(req.Subject),
		Topic:      strings.TrimSpace(req.Topic),
		Difficulty: difficulty,
		Passage:    strings.TrimSpace(req.Passage),
		Prompt:     strings.TrimSpace(req.Prompt),
		Choices:    compactChoices(req.Choices),
		AnswerKey:  strings.TrimSpace(req.AnswerKey),
	}
	if q.Subject == "" || q.Prompt == "" {
		return nil, ErrBlankQuestion
	}
	return s.questionRepo.Append(ctx, q)
}

func (s *QuestionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// compactChoices drops blank choices and keeps at most five.
func compactChoices(choices []string) []string {
	var out []string
	for _, c := range choices {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
		if len(out) == model.MaxChoices {
			break
		}
	}
	return out
}
