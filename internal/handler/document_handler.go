package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/questbank/internal/document"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/service"
	"github.com/stemsi/questbank/internal/validator"
)

// HeaderDocumentWarnings carries the number of notices raised while generating an
// exported document.
const HeaderDocumentWarnings = "X-Document-Warnings"

// DocumentHandler is the export sink: it previews and serves composed documents.
type DocumentHandler struct {
	documentService *service.DocumentService
	maxLogoBytes    int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *service.DocumentService, maxLogoBytes int64) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, maxLogoBytes: maxLogoBytes}
}

// Preview godoc
// POST /api/v1/documents/preview
// Returns the structured document, its HTML and the notices raised while composing.
func (h *DocumentHandler) Preview(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	res, notices, err := h.documentService.Generate(c.Request.Context(), req)
	if err != nil {
		fail(c, err, notices)
		return
	}
	response.SuccessWithNotices(c, http.StatusOK, res, notices)
}

// Export godoc
// POST /api/v1/documents/export?disposition=attachment|inline
// Serves the document as an HTML download, or inline for on-screen preview and printing.
func (h *DocumentHandler) Export(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	res, notices, err := h.documentService.Export(c.Request.Context(), req, c.Query("disposition"), "")
	if err != nil {
		fail(c, err, notices)
		return
	}
	writeDocument(c, res, c.Query("disposition"), notices)
}

func (h *DocumentHandler) bindRequest(c *gin.Context) (service.GenerateRequest, bool) {
	var req service.GenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return req, false
	}
	if !logosWithin(req.Document, h.maxLogoBytes) {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return req, false
	}
	return req, true
}

func logosWithin(s model.DocumentSettings, limit int64) bool {
	if limit <= 0 {
		return true
	}
	return int64(len(s.LeftLogo)) <= limit && int64(len(s.RightLogo)) <= limit
}

// writeDocument hands a finished document to the browser.
func writeDocument(c *gin.Context, res *service.GenerateResult, disposition string, notices []model.Notice) {
	if disposition != service.DispositionInline {
		disposition = service.DispositionAttachment
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, res.Filename))
	c.Header(HeaderDocumentWarnings, strconv.Itoa(len(notices)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, document.MIMEType, []byte(res.HTML))
}
