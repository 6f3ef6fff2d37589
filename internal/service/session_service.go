package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/bank"
	"github.com/stemsi/questbank/internal/model"
)

// SessionStore persists session state between interactions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.SessionState, error)
	Save(ctx context.Context, state *model.SessionState) error
}

// SessionView is everything the bank page shows for one session, re-derived from a
// fresh store read.
type SessionView struct {
	State     *model.SessionState `json:"state"`
	Questions []model.Question    `json:"questions"`
	Options   model.FilterOptions `json:"options"`
	Total     int                 `json:"total"`
	Selected  []model.Question    `json:"selected"`
	Missing   []int               `json:"missing,omitempty"`
	Notices   []model.Notice      `json:"notices,omitempty"`
}

// SessionService applies interactions to session state.
type SessionService struct {
	store     SessionStore
	questions *QuestionService
	documents *DocumentService
	now       func() time.Time
	log       zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(store SessionStore, questions *QuestionService, documents *DocumentService, log zerolog.Logger) *SessionService {
	return &SessionService{
		store:     store,
		questions: questions,
		documents: documents,
		now:       time.Now,
		log:       log.With().Str("component", "session_service").Logger(),
	}
}

// Create starts a new session with default document settings.
func (s *SessionService) Create(ctx context.Context) (*model.SessionState, error) {
	state := &model.SessionState{
		ID:        uuid.New().String(),
		Selection: []int{},
		Document:  model.DocumentSettings{}.WithDefaults(),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Get returns the stored state of session id.
func (s *SessionService) Get(ctx context.Context, id string) (*model.SessionState, error) {
	return s.store.Get(ctx, id)
}

// Update applies upd to session id and stores the result.
func (s *SessionService) Update(ctx context.Context, id string, upd model.SessionUpdate) (*model.SessionState, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := Apply(*state, upd, s.now().UTC())
	if err := s.store.Save(ctx, &next); err != nil {
		return nil, err
	}
	for _, n := range next.Notices {
		s.log.Warn().Str("session_id", id).Str("code", string(n.Code)).Msg(n.Message)
	}
	return &next, nil
}

// Apply is the session reducer: it returns state with one interaction applied. Notices
// of the previous interaction are dropped. Invalid ordering text is kept for display
// but the previous valid selection remains in effect.
func Apply(state model.SessionState, upd model.SessionUpdate, now time.Time) model.SessionState {
	state.Notices = nil
	state.Version++
	state.UpdatedAt = now

	if upd.Reset {
		return model.SessionState{
			ID:        state.ID,
			Selection: []int{},
			Document:  model.DocumentSettings{}.WithDefaults(),
			Version:   state.Version,
			UpdatedAt: now,
		}
	}

	if upd.Filters != nil {
		state.Filters = *upd.Filters
	}
	if upd.OrderText != nil {
		text := strings.TrimSpace(*upd.OrderText)
		ids, err := bank.ParseOrder(text)
		var fe *bank.SelectionFormatError
		switch {
		case errors.As(err, &fe):
			state.Notices = append(state.Notices, selectionFormatNotice(fe))
		case err == nil:
			state.Selection = ids
		}
		state.OrderText = text
	}
	if upd.Sample != nil {
		if upd.Sample.Size > 0 {
			sample := *upd.Sample
			state.Sample = &sample
		} else {
			state.Sample = nil
		}
	}
	if upd.Document != nil {
		state.Document = upd.Document.WithDefaults()
	}
	return state
}

// View re-derives the bank page of session id.
func (s *SessionService) View(ctx context.Context, id string) (*SessionView, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := s.questions.Load(ctx)
	available := bank.Filter(snap.Questions, state.Filters)
	if state.Sample != nil {
		available = bank.Sample(available, state.Sample.Size, state.Sample.Seed)
	}

	ids := state.Selection
	if len(ids) == 0 && state.Sample != nil {
		ids = bank.IDs(available)
	}
	selected, missing := bank.Select(available, ids)

	notices := append([]model.Notice{}, state.Notices...)
	notices = append(notices, snap.Notices...)
	if len(missing) > 0 {
		notices = append(notices, unknownIDsNotice(missing))
	}

	return &SessionView{
		State:     state,
		Questions: available,
		Options:   bank.Options(snap.Questions),
		Total:     len(snap.Questions),
		Selected:  selected,
		Missing:   missing,
		Notices:   notices,
	}, nil
}

// Export generates the document of session id.
func (s *SessionService) Export(ctx context.Context, id, disposition string) (*GenerateResult, []model.Notice, error) {
	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.documents.Export(ctx, GenerateRequest{
		Filters:  state.Filters,
		Order:    state.Selection,
		Sample:   state.Sample,
		Document: state.Document,
	}, disposition, state.ID)
}
