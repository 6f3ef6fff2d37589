package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/questbank/internal/bank"
	"github.com/stemsi/questbank/internal/document"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/repository"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/schema"
	"github.com/stemsi/questbank/internal/service"
)

// failure maps a domain error to its HTTP status, error code and field details.
func failure(err error) (int, response.ErrCode, map[string]string) {
	var mismatch *schema.MismatchError
	var format *bank.SelectionFormatError
	switch {
	case errors.As(err, &mismatch):
		missing := make([]string, len(mismatch.Missing))
		for i, f := range mismatch.Missing {
			missing[i] = string(f)
		}
		return http.StatusUnprocessableEntity, response.ErrSchemaMismatch, map[string]string{
			"missing":  strings.Join(missing, ", "),
			"detected": strings.Join(mismatch.Detected, ", "),
		}
	case errors.As(err, &format):
		return http.StatusBadRequest, response.ErrInvalidSelectionFormat, map[string]string{
			"order_text": format.Error(),
		}
	case errors.Is(err, service.ErrBlankQuestion):
		return http.StatusBadRequest, response.ErrValidation, map[string]string{
			"prompt": "enunciado e disciplina não podem ficar em branco",
		}
	case errors.Is(err, document.ErrNothingSelected):
		return http.StatusUnprocessableEntity, response.ErrNothingSelected, nil
	case errors.Is(err, document.ErrInvalidLogo):
		return http.StatusBadRequest, response.ErrInvalidLogo, nil
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, response.ErrStoreUnavailable, nil
	case errors.Is(err, repository.ErrStoreReadOnly):
		return http.StatusConflict, response.ErrStoreReadOnly, nil
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrNotFound, nil
	default:
		return http.StatusInternalServerError, response.ErrInternal, nil
	}
}

// fail writes the error envelope for err, keeping any notices gathered so far.
func fail(c *gin.Context, err error, notices []model.Notice) {
	status, code, fields := failure(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.FailWithNotices(c, status, code, fields, notices)
}
