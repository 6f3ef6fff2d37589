package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/bank"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/document"
	"github.com/stemsi/questbank/internal/middleware"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/service"
	"github.com/stemsi/questbank/internal/validator"
)

// UIHandler serves the server-rendered form pages.
type UIHandler struct {
	sessionService  *service.SessionService
	questionService *service.QuestionService
	cfg             *config.Config
	log             zerolog.Logger
}

// NewUIHandler creates a new UIHandler.
func NewUIHandler(sessionService *service.SessionService, questionService *service.QuestionService, cfg *config.Config, log zerolog.Logger) *UIHandler {
	return &UIHandler{
		sessionService:  sessionService,
		questionService: questionService,
		cfg:             cfg,
		log:             log.With().Str("component", "ui_handler").Logger(),
	}
}

type bankPage struct {
	View          *service.SessionView
	Picked        map[int]bool
	Notices       []model.Notice
	Difficulties  []model.Difficulty
	DocumentTypes []model.DocumentType
	Modes         []model.DisplayMode
	HasLeftLogo   bool
	HasRightLogo  bool
}

// Filtered reports whether difficulty d is checked in the filter panel.
func (p bankPage) Filtered(d model.Difficulty) bool {
	for _, v := range p.View.State.Filters.Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

// Bank godoc
// GET /
// Renders the filter, selection and document settings panels of the session.
func (h *UIHandler) Bank(c *gin.Context) {
	h.renderBank(c, http.StatusOK, nil)
}

func (h *UIHandler) renderBank(c *gin.Context, status int, extra []model.Notice) {
	view, err := h.sessionService.View(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build bank view")
		c.String(http.StatusServiceUnavailable, "Sessão indisponível. Tente novamente.")
		return
	}

	picked := make(map[int]bool, len(view.Selected))
	for _, q := range view.Selected {
		picked[q.ID] = true
	}
	c.HTML(status, "bank", bankPage{
		View:          view,
		Picked:        picked,
		Notices:       append(extra, view.Notices...),
		Difficulties:  model.Difficulties,
		DocumentTypes: []model.DocumentType{model.DocumentTypeExam, model.DocumentTypeActivity, model.DocumentTypeMock},
		Modes:         []model.DisplayMode{model.DisplayModeObjective, model.DisplayModeSubjective},
		HasLeftLogo:   len(view.State.Document.LeftLogo) > 0,
		HasRightLogo:  len(view.State.Document.RightLogo) > 0,
	})
}

type filtersForm struct {
	model.QuestionFilter
	model.SampleRequest
}

// Filters godoc
// POST /ui/filters
func (h *UIHandler) Filters(c *gin.Context) {
	var form filtersForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.renderBank(c, http.StatusBadRequest, []model.Notice{validationNotice(service.TargetStore, fields)})
		return
	}

	sample := form.SampleRequest
	h.apply(c, model.SessionUpdate{Filters: &form.QuestionFilter, Sample: &sample})
}

// Selection modes posted by the two selection forms.
const (
	selectionModePicks = "picks"
	selectionModeText  = "text"
)

// Selection godoc
// POST /ui/selection
// mode=picks takes the ticked questions in listing order; an empty tick list clears the
// selection. Anything else takes the typed ordering text.
func (h *UIHandler) Selection(c *gin.Context) {
	var text string
	switch c.PostForm("mode") {
	case selectionModePicks:
		var picks []int
		for _, raw := range c.PostFormArray("pick") {
			if id, err := strconv.Atoi(raw); err == nil {
				picks = append(picks, id)
			}
		}
		text = bank.FormatOrder(picks)
	default:
		text = strings.TrimSpace(c.PostForm("order_text"))
	}
	h.apply(c, model.SessionUpdate{OrderText: &text})
}

// Document godoc
// POST /ui/document
// Updates the composition settings. Logos already uploaded are kept unless replaced or
// cleared.
func (h *UIHandler) Document(c *gin.Context) {
	var settings model.DocumentSettings
	if fields := validator.BindForm(c, &settings); fields != nil {
		h.renderBank(c, http.StatusBadRequest, []model.Notice{validationNotice(service.TargetDocument, fields)})
		return
	}

	current, err := h.sessionService.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load session")
		c.String(http.StatusServiceUnavailable, "Sessão indisponível. Tente novamente.")
		return
	}
	settings.ModeOverrides = current.Document.ModeOverrides
	if c.PostForm("clear_logos") == "" {
		settings.LeftLogo = current.Document.LeftLogo
		settings.RightLogo = current.Document.RightLogo
	}

	for field, dst := range map[string]*[]byte{"left_logo": &settings.LeftLogo, "right_logo": &settings.RightLogo} {
		data, err := h.readLogo(c, field)
		if err != nil {
			h.renderBank(c, http.StatusBadRequest, []model.Notice{{
				Code:    model.NoticeInvalidLogo,
				Target:  service.TargetDocument,
				Message: "O logotipo enviado não é uma imagem válida ou excede o tamanho máximo.",
			}})
			return
		}
		if data != nil {
			*dst = data
		}
	}

	h.apply(c, model.SessionUpdate{Document: &settings})
}

// readLogo returns the uploaded image of field, or nil when none was sent.
func (h *UIHandler) readLogo(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if h.cfg.MaxLogoBytes > 0 && fh.Size > h.cfg.MaxLogoBytes {
		return nil, errors.New("logo too large")
	}

	data, err := readFile(fh)
	if err != nil {
		return nil, err
	}
	if _, err := document.LogoDataURI(data); err != nil {
		return nil, err
	}
	return data, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Export godoc
// POST /ui/export?disposition=attachment|inline
// Serves the session's document. Failures land back on the bank page as a notice on the
// document panel.
func (h *UIHandler) Export(c *gin.Context) {
	disposition := c.Query("disposition")
	res, notices, err := h.sessionService.Export(c.Request.Context(), middleware.GetSessionID(c), disposition)
	if err != nil {
		status, code, _ := failure(err)
		h.log.Warn().Err(err).Str("code", string(code)).Msg("Export from form failed")
		h.renderBank(c, status, []model.Notice{{
			Code:    model.NoticeCode(code),
			Target:  service.TargetDocument,
			Message: response.GetMessage(code),
		}})
		return
	}
	writeDocument(c, res, disposition, notices)
}

// Reset godoc
// POST /ui/reset
func (h *UIHandler) Reset(c *gin.Context) {
	h.apply(c, model.SessionUpdate{Reset: true})
}

func (h *UIHandler) apply(c *gin.Context, upd model.SessionUpdate) {
	if _, err := h.sessionService.Update(c.Request.Context(), middleware.GetSessionID(c), upd); err != nil {
		h.log.Error().Err(err).Msg("Failed to update session")
		c.String(http.StatusServiceUnavailable, "Sessão indisponível. Tente novamente.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

type registerPage struct {
	Form         model.CreateQuestionRequest
	Choices      []string
	Fields       map[string]string
	Created      int
	Error        string
	Difficulties []model.Difficulty
	Letters      []string
}

func newRegisterPage(form model.CreateQuestionRequest) registerPage {
	choices := make([]string, model.MaxChoices)
	copy(choices, form.Choices)
	return registerPage{
		Form:         form,
		Choices:      choices,
		Difficulties: model.Difficulties,
		Letters:      model.ChoiceLetters[:],
	}
}

// NewQuestion godoc
// GET /ui/questions/new
func (h *UIHandler) NewQuestion(c *gin.Context) {
	page := newRegisterPage(model.CreateQuestionRequest{})
	page.Created, _ = strconv.Atoi(c.Query("created"))
	c.HTML(http.StatusOK, "register", page)
}

// CreateQuestion godoc
// POST /ui/questions
func (h *UIHandler) CreateQuestion(c *gin.Context) {
	var form model.CreateQuestionRequest
	if fields := validator.BindForm(c, &form); fields != nil {
		page := newRegisterPage(form)
		page.Fields = fields
		c.HTML(http.StatusBadRequest, "register", page)
		return
	}

	q, err := h.questionService.Register(c.Request.Context(), form)
	if err != nil {
		status, code, _ := failure(err)
		page := newRegisterPage(form)
		page.Error = response.GetMessage(code)
		c.HTML(status, "register", page)
		return
	}
	c.Redirect(http.StatusSeeOther, "/ui/questions/new?created="+strconv.Itoa(q.ID))
}

// About godoc
// GET /ui/about
func (h *UIHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about", gin.H{
		"Version": config.Version,
		"Backend": h.cfg.StoreBackend,
	})
}

func validationNotice(target string, fields map[string]string) model.Notice {
	n := model.Notice{
		Code:    model.NoticeValidation,
		Target:  target,
		Message: "Falha na validação. Verifique os dados informados.",
	}
	for k, v := range fields {
		n.Details = append(n.Details, k+": "+v)
	}
	return n
}
