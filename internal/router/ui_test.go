package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stemsi/questbank/internal/document"
	"github.com/stemsi/questbank/internal/middleware"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/service"
)

var pngLogo = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// browser keeps the session cookie across form posts the way a browser would.
type browser struct {
	s      *testServer
	cookie *http.Cookie
}

func newBrowser(t *testing.T, s *testServer) *browser {
	t.Helper()
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return &browser{s: s, cookie: ck}
		}
	}
	t.Fatalf("no session cookie in %q", w.Header().Get("Set-Cookie"))
	return nil
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(b.cookie)
	w := httptest.NewRecorder()
	b.s.engine.ServeHTTP(w, req)
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) postMultipart(t *testing.T, path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, data := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.send(req)
}

// view reads the session back through the JSON API.
func (b *browser) view(t *testing.T) service.SessionView {
	t.Helper()
	w := b.s.do(t, http.MethodGet, "/api/v1/sessions/"+b.cookie.Value, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("view: status = %d: %s", w.Code, w.Body.String())
	}
	var v service.SessionView
	if err := json.Unmarshal(decode(t, w).Data, &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("status = %d, location = %q: %s", w.Code, w.Header().Get("Location"), w.Body.String())
	}
}

func selectionOf(v service.SessionView) []int {
	return v.State.Selection
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestUISelectionPicksReplaceEarlierSelection(t *testing.T) {
	s := newTestServer(t, 10)
	b := newBrowser(t, s)

	expectRedirect(t, b.post("/ui/selection", url.Values{"mode": {"picks"}, "pick": {"2"}}))
	if got := selectionOf(b.view(t)); !equalIDs(got, []int{2}) {
		t.Fatalf("first picks: selection = %v", got)
	}

	// The stored order text is echoed back by the page; ticked boxes still win.
	expectRedirect(t, b.post("/ui/selection", url.Values{"mode": {"picks"}, "pick": {"1", "2"}, "order_text": {"2"}}))
	if got := selectionOf(b.view(t)); !equalIDs(got, []int{1, 2}) {
		t.Fatalf("second picks: selection = %v", got)
	}

	expectRedirect(t, b.post("/ui/selection", url.Values{"mode": {"picks"}}))
	if got := selectionOf(b.view(t)); len(got) != 0 {
		t.Errorf("no picks: selection = %v, want cleared", got)
	}
}

func TestUISelectionOrderText(t *testing.T) {
	s := newTestServer(t, 10)
	b := newBrowser(t, s)

	expectRedirect(t, b.post("/ui/selection", url.Values{"mode": {"text"}, "order_text": {"2, 1"}}))
	if got := selectionOf(b.view(t)); !equalIDs(got, []int{2, 1}) {
		t.Fatalf("selection = %v", got)
	}

	expectRedirect(t, b.post("/ui/selection", url.Values{"mode": {"text"}, "order_text": {"2, x"}}))
	v := b.view(t)
	if got := selectionOf(v); !equalIDs(got, []int{2, 1}) {
		t.Errorf("invalid text: selection = %v, want previous kept", got)
	}
	if v.State.OrderText != "2, x" {
		t.Errorf("order text = %q", v.State.OrderText)
	}
	var flagged bool
	for _, n := range v.Notices {
		if n.Code == model.NoticeInvalidSelectionFormat && n.Target == service.TargetSelection {
			flagged = true
		}
	}
	if !flagged {
		t.Errorf("notices = %+v, want invalid selection format", v.Notices)
	}
}

func TestUIFilters(t *testing.T) {
	s := newTestServer(t, 10)
	b := newBrowser(t, s)

	expectRedirect(t, b.post("/ui/filters", url.Values{"year": {"2022"}}))
	v := b.view(t)
	if len(v.Questions) != 1 || v.Questions[0].ID != 2 {
		t.Fatalf("year filter: questions = %+v", v.Questions)
	}

	expectRedirect(t, b.post("/ui/filters", url.Values{"subject": {"Matemática"}, "sample_size": {"0"}}))
	v = b.view(t)
	if len(v.Questions) != 1 || v.Questions[0].ID != 1 {
		t.Fatalf("subject filter: questions = %+v", v.Questions)
	}
	if len(v.State.Filters.Years) != 0 {
		t.Errorf("years = %v, want replaced", v.State.Filters.Years)
	}

	w := b.post("/ui/filters", url.Values{"sample_size": {"9999"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized sample: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Falha na validação") {
		t.Error("bank page should show the validation notice")
	}
}

func TestUIDocumentLogos(t *testing.T) {
	s := newTestServer(t, 10)
	b := newBrowser(t, s)

	w := b.postMultipart(t, "/ui/document", map[string]string{"institution_name": "Escola A"}, map[string][]byte{"left_logo": pngLogo})
	expectRedirect(t, w)
	if got := b.view(t).State.Document.LeftLogo; !bytes.Equal(got, pngLogo) {
		t.Fatalf("uploaded logo = %q", got)
	}

	expectRedirect(t, b.postMultipart(t, "/ui/document", map[string]string{"institution_name": "Escola B"}, nil))
	doc := b.view(t).State.Document
	if doc.InstitutionName != "Escola B" || !bytes.Equal(doc.LeftLogo, pngLogo) {
		t.Fatalf("settings update: name = %q, logo kept = %v", doc.InstitutionName, bytes.Equal(doc.LeftLogo, pngLogo))
	}

	w = b.postMultipart(t, "/ui/document", map[string]string{"institution_name": "Escola C"}, map[string][]byte{"right_logo": []byte("just some text")})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid logo: status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "não é uma imagem válida") {
		t.Error("bank page should show the invalid logo notice")
	}
	doc = b.view(t).State.Document
	if doc.InstitutionName != "Escola B" || len(doc.RightLogo) != 0 {
		t.Errorf("invalid logo changed settings: %+v", doc)
	}

	expectRedirect(t, b.postMultipart(t, "/ui/document", map[string]string{"institution_name": "Escola B", "clear_logos": "true"}, nil))
	if doc := b.view(t).State.Document; len(doc.LeftLogo) != 0 {
		t.Errorf("clear: left logo still %d bytes", len(doc.LeftLogo))
	}
}

func TestUIExport(t *testing.T) {
	s := newTestServer(t, 10)
	b := newBrowser(t, s)

	w := b.post("/ui/export?disposition=attachment", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty selection: status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want the bank page", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, response.GetMessage(response.ErrNothingSelected)) || !strings.Contains(body, "Filtros") {
		t.Errorf("body should be the bank page with the notice: %s", body)
	}

	expectRedirect(t, b.post("/ui/selection", url.Values{"mode": {"picks"}, "pick": {"1"}}))
	w = b.post("/ui/export?disposition=attachment", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != document.MIMEType {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") {
		t.Errorf("content disposition = %q", cd)
	}
	if !strings.Contains(w.Body.String(), "Questão um") {
		t.Error("document should contain the picked question")
	}
}

func TestUICreateQuestionValidation(t *testing.T) {
	s := newTestServer(t, 10)
	b := newBrowser(t, s)

	w := b.post("/ui/questions", url.Values{"subject": {"Matemática"}, "prompt": {"   "}, "passage": {"Leia o trecho."}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "field-error") || !strings.Contains(body, "branco") {
		t.Errorf("register page should flag the prompt: %s", body)
	}
	if !strings.Contains(body, "Leia o trecho.") {
		t.Error("register page should keep the typed passage")
	}

	w = b.post("/ui/questions", url.Values{"subject": {"Química"}, "prompt": {"Qual é o símbolo do ouro?"}, "choices": {"Au", "Ag"}})
	if w.Code != http.StatusSeeOther || !strings.HasPrefix(w.Header().Get("Location"), "/ui/questions/new?created=") {
		t.Fatalf("valid form: status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestBankPageExpandsQuestionDetails(t *testing.T) {
	s := newTestServer(t, 10)
	w := s.do(t, http.MethodPost, "/api/v1/questions", map[string]interface{}{
		"subject": "Português",
		"passage": "Leia o poema abaixo.",
		"prompt":  "Qual é o tema?",
		"choices": []string{"Amor", "Saudade"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d: %s", w.Code, w.Body.String())
	}

	body := newBrowser(t, s).get("/").Body.String()
	for _, want := range []string{"<details>", "<summary>Qual é o tema?</summary>", "Leia o poema abaixo.", `<ol type="A">`, "<li>Saudade</li>", "<li>1/3</li>"} {
		if !strings.Contains(body, want) {
			t.Errorf("bank page missing %q", want)
		}
	}
}
