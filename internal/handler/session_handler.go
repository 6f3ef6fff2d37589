package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/service"
	"github.com/stemsi/questbank/internal/validator"
)

// SessionHandler exposes the serializable compose session.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSession godoc
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	state, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.Success(c, http.StatusCreated, state)
}

// GetSession godoc
// GET /api/v1/sessions/:id
// Returns the session state with its view re-derived from a fresh store read.
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.sessionService.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.SuccessWithNotices(c, http.StatusOK, view, view.Notices)
}

// UpdateSession godoc
// PATCH /api/v1/sessions/:id
// Applies one interaction. Invalid ordering text is reported as a notice and the
// previous selection is kept.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var upd model.SessionUpdate
	if fields := validator.Bind(c, &upd); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		fail(c, err, nil)
		return
	}
	response.SuccessWithNotices(c, http.StatusOK, state, state.Notices)
}

// ExportSession godoc
// POST /api/v1/sessions/:id/export?disposition=attachment|inline
func (h *SessionHandler) ExportSession(c *gin.Context) {
	res, notices, err := h.sessionService.Export(c.Request.Context(), c.Param("id"), c.Query("disposition"))
	if err != nil {
		fail(c, err, notices)
		return
	}
	writeDocument(c, res, c.Query("disposition"), notices)
}
