package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/service"
	"github.com/stemsi/questbank/internal/validator"
)

// QuestionHandler handles question bank endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/v1/questions?subject=..&topic=..&difficulty=..&source=..
// Lists the questions passing the filters and the options of the whole bank.
// An unreachable store yields an empty list with a notice, never an error.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var f model.QuestionFilter
	if fields := validator.BindQuery(c, &f); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	list, notices := h.questionService.List(c.Request.Context(), f)
	response.SuccessWithNotices(c, http.StatusOK, list, notices)
}

// CreateQuestion godoc
// POST /api/v1/questions
// Appends a question under the next available id.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err, nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

type sampleRequest struct {
	Filters model.QuestionFilter `json:"filters"`
	model.SampleRequest
}

// SampleQuestions godoc
// POST /api/v1/questions/sample
// Draws a reproducible sample of the filtered questions.
func (h *QuestionHandler) SampleQuestions(c *gin.Context) {
	var req sampleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	list, notices := h.questionService.Sample(c.Request.Context(), req.Filters, req.SampleRequest)
	response.SuccessWithNotices(c, http.StatusOK, list, notices)
}
