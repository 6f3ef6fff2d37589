package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/bank"
	"github.com/stemsi/questbank/internal/document"
	"github.com/stemsi/questbank/internal/model"
)

// Export dispositions.
const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

// ExportRecorder receives one event per finished export.
type ExportRecorder interface {
	Enqueue(ctx context.Context, ev model.ExportEvent) error
}

// GenerateRequest describes one document generation. Order takes precedence over
// OrderText. Without either, the filtered (and optionally sampled) set is used in bank
// order when Sample is set, and nothing is selected otherwise.
type GenerateRequest struct {
	Filters   model.QuestionFilter   `json:"filters"`
	Order     []int                  `json:"order"`
	OrderText string                 `json:"order_text"`
	Sample    *model.SampleRequest   `json:"sample"`
	Document  model.DocumentSettings `json:"document"`
}

// GenerateResult is a composed and rendered document.
type GenerateResult struct {
	Document *document.Document `json:"document"`
	HTML     string             `json:"html"`
	Filename string             `json:"filename"`
	Missing  []int              `json:"missing,omitempty"`
}

// DocumentService runs the Store, Filter, Selection, Composer pipeline.
type DocumentService struct {
	questions *QuestionService
	recorder  ExportRecorder
	now       func() time.Time
	log       zerolog.Logger
}

// NewDocumentService creates a new DocumentService. recorder may be nil.
func NewDocumentService(questions *QuestionService, recorder ExportRecorder, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		questions: questions,
		recorder:  recorder,
		now:       time.Now,
		log:       log.With().Str("component", "document_service").Logger(),
	}
}

// Generate composes and renders the document described by req.
//
// The returned notices are valid even when err is non-nil. A schema mismatch or an
// unreachable store halts generation with the snapshot error; unknown ids are skipped
// with a notice.
func (s *DocumentService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, []model.Notice, error) {
	snap := s.questions.Load(ctx)
	notices := snap.Notices
	if snap.Err != nil {
		return nil, notices, snap.Err
	}

	available := bank.Filter(snap.Questions, req.Filters)
	if req.Sample != nil {
		available = bank.Sample(available, req.Sample.Size, req.Sample.Seed)
	}

	ids := req.Order
	if len(ids) == 0 && req.OrderText != "" {
		parsed, err := bank.ParseOrder(req.OrderText)
		if err != nil {
			return nil, notices, err
		}
		ids = parsed
	}
	if len(ids) == 0 && req.Sample != nil {
		ids = bank.IDs(available)
	}

	selected, missing := bank.Select(available, ids)
	if len(missing) > 0 {
		s.log.Warn().Ints("ids", missing).Msg("Skipping unknown question ids")
		notices = append(notices, unknownIDsNotice(missing))
	}

	doc, err := document.Compose(selected, req.Document)
	if err != nil {
		return nil, notices, err
	}
	html, err := document.RenderString(doc)
	if err != nil {
		return nil, notices, err
	}

	return &GenerateResult{
		Document: doc,
		HTML:     html,
		Filename: document.Filename(doc),
		Missing:  missing,
	}, notices, nil
}

// Export generates the document and records the export. A recording failure is logged
// and does not fail the export.
func (s *DocumentService) Export(ctx context.Context, req GenerateRequest, disposition, sessionID string) (*GenerateResult, []model.Notice, error) {
	res, notices, err := s.Generate(ctx, req)
	if err != nil {
		return nil, notices, err
	}
	if disposition != DispositionInline {
		disposition = DispositionAttachment
	}

	if s.recorder != nil {
		ev := model.ExportEvent{
			SessionID:    sessionID,
			DocumentType: res.Document.Type,
			DisplayMode:  req.Document.WithDefaults().DisplayMode,
			QuestionIDs:  questionIDs(res.Document),
			Warnings:     len(res.Missing),
			Disposition:  disposition,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.recorder.Enqueue(ctx, ev); err != nil {
			s.log.Error().Err(err).Msg("Failed to enqueue export event")
		}
	}

	s.log.Info().
		Str("filename", res.Filename).
		Int("questions", len(res.Document.Questions)).
		Str("disposition", disposition).
		Msg("Document exported")
	return res, notices, nil
}

func questionIDs(doc *document.Document) []int {
	ids := make([]int, len(doc.Questions))
	for i, b := range doc.Questions {
		ids[i] = b.QuestionID
	}
	return ids
}
