package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/questbank/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindJSON(t *testing.T, body string) map[string]string {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.CreateQuestionRequest
	return Bind(c, &req)
}

func TestBindValidQuestion(t *testing.T) {
	fields := bindJSON(t, `{"subject":"Matemática","prompt":"Quanto é 2+2?","difficulty":"Médio","choices":["3","4"]}`)
	if fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
}

func TestBindRejectsUnknownDifficulty(t *testing.T) {
	fields := bindJSON(t, `{"subject":"Mat","prompt":"x","difficulty":"extrema"}`)
	msg, ok := fields["difficulty"]
	if !ok {
		t.Fatalf("errors = %v, want difficulty", fields)
	}
	if !strings.Contains(msg, "Fácil") {
		t.Errorf("message = %q", msg)
	}
}

func TestBindRequiredFields(t *testing.T) {
	fields := bindJSON(t, `{"choices":["a"]}`)
	if _, ok := fields["subject"]; !ok {
		t.Errorf("missing subject error: %v", fields)
	}
	if _, ok := fields["prompt"]; !ok {
		t.Errorf("missing prompt error: %v", fields)
	}
}

func TestBindRejectsBlankPrompt(t *testing.T) {
	fields := bindJSON(t, `{"subject":"Matemática","prompt":"   "}`)
	msg, ok := fields["prompt"]
	if !ok {
		t.Fatalf("errors = %v, want prompt", fields)
	}
	if !strings.Contains(msg, "branco") {
		t.Errorf("message = %q", msg)
	}
}

func TestBindTooManyChoices(t *testing.T) {
	fields := bindJSON(t, `{"subject":"Mat","prompt":"x","choices":["a","b","c","d","e","f"]}`)
	if _, ok := fields["choices"]; !ok {
		t.Errorf("errors = %v, want choices", fields)
	}
}

func TestBindMalformedJSON(t *testing.T) {
	fields := bindJSON(t, `{"subject":`)
	if _, ok := fields["detail"]; !ok {
		t.Errorf("errors = %v, want detail", fields)
	}
}
