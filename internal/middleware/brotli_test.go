package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func brotliRouter(body string, contentType string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, contentType, []byte(body))
	})
	return r
}

func TestBrotliCompressesLargeHTML(t *testing.T) {
	body := strings.Repeat("<p>questão</p>", 200)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	brotliRouter(body, "text/html; charset=utf-8").ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q", w.Header().Get("Content-Encoding"))
	}
	got, err := io.ReadAll(brotli.NewReader(w.Body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got) != body {
		t.Error("decompressed body differs")
	}
}

func TestBrotliSkipsSmallAndBinary(t *testing.T) {
	cases := []struct {
		name, body, ct string
	}{
		{"small", "<p>oi</p>", "text/html"},
		{"binary", strings.Repeat("x", 4096), "image/png"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Encoding", "br")
			w := httptest.NewRecorder()
			brotliRouter(c.body, c.ct).ServeHTTP(w, req)

			if w.Header().Get("Content-Encoding") != "" {
				t.Errorf("unexpected encoding %q", w.Header().Get("Content-Encoding"))
			}
			if w.Body.String() != c.body {
				t.Error("body altered")
			}
		})
	}
}
