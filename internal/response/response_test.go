package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/questbank/internal/model"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/fail", func(c *gin.Context) {
		FailWithNotices(c, http.StatusUnprocessableEntity, ErrNothingSelected, nil,
			[]model.Notice{{Code: model.NoticeUnknownQuestionID, Message: "x"}})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusUnprocessableEntity || body.Error == nil || body.Error.Code != ErrNothingSelected {
		t.Fatalf("response = %d %+v", w.Code, body)
	}
	if body.Error.Message != GetMessage(ErrNothingSelected) {
		t.Errorf("message = %q", body.Error.Message)
	}
	if len(body.Notices) != 1 || body.Metadata.RequestID != "req-1" {
		t.Errorf("notices/metadata = %+v / %+v", body.Notices, body.Metadata)
	}
	if w.Header().Get("X-Request-ID") != "req-1" {
		t.Error("request id not echoed")
	}
}

func TestEveryCodeHasMessage(t *testing.T) {
	codes := []ErrCode{
		ErrValidation, ErrInvalidPayload, ErrInvalidSelectionFormat, ErrInvalidLogo, ErrFileTooLarge,
		ErrStoreUnavailable, ErrStoreReadOnly, ErrSchemaMismatch, ErrUnknownQuestionID,
		ErrNothingSelected, ErrNotFound, ErrRateLimitExceeded, ErrInternal,
	}
	fallback := GetMessage("SOMETHING_ELSE")
	for _, c := range codes {
		if GetMessage(c) == fallback {
			t.Errorf("%s has no message", c)
		}
	}
}

func TestRequestIDRejectsUnsafeHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	for _, incoming := range []string{"", "has space", strings.Repeat("a", maxRequestIDLen+1)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		if incoming != "" {
			req.Header.Set(HeaderRequestID, incoming)
		}
		r.ServeHTTP(w, req)

		got := w.Header().Get(HeaderRequestID)
		if got == "" || got == incoming {
			t.Errorf("incoming %q: echoed %q", incoming, got)
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("incoming %q: generated id %q is not a uuid", incoming, got)
		}
	}
}
