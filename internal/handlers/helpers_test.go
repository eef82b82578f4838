package handlers

import (
	"context"
	"errors"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"feed_csrf/internal/models"
	"feed_csrf/internal/repository"
	"feed_csrf/internal/service"
	"feed_csrf/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	testSecret     = "test-secret"
	testEmail      = "batman@obawim.com"
	testPassword   = "password123"
	testExploitURL = "http://127.0.0.1:5001/malicious"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp is a running feed server with a browser-like client.
type testApp struct {
	srv    *httptest.Server
	client *http.Client
	repos  *repository.Repository
}

// newTestApp starts the feed app on a seeded memory store. mutate, when
// non-nil, can swap sub-services before routes are built.
func newTestApp(t *testing.T, opts Options, mutate func(*service.Service)) *testApp {
	t.Helper()
	return newTestAppWithRepos(t, repository.NewMemoryRepository(), opts, mutate)
}

// newTestAppWithRepos is newTestApp over caller-provided stores; the default
// account is seeded into repos.Users.
func newTestAppWithRepos(t *testing.T, repos *repository.Repository, opts Options, mutate func(*service.Service)) *testApp {
	t.Helper()
	if err := repository.Seed(context.Background(), repos.Users, repository.DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	svc := service.NewService(repos, testExploitURL)
	if mutate != nil {
		mutate(svc)
	}
	sessOpts := session.Options{}
	if opts.Hardened {
		sessOpts.SameSite = http.SameSiteLaxMode
	}
	h := NewHandler(svc, session.NewManager(testSecret, sessOpts), nil, opts)

	srv := httptest.NewServer(h.HTTPHandler())
	t.Cleanup(srv.Close)
	return &testApp{srv: srv, client: newBrowser(t), repos: repos}
}

// newBrowser returns a client with a cookie jar that does not follow redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (a *testApp) url(path string) string { return a.srv.URL + path }

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.url(path))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.url(path), form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (a *testApp) login(t *testing.T, email, password string) *http.Response {
	t.Helper()
	resp, _ := a.post(t, routeLogin, url.Values{"email": {email}, "password": {password}})
	return resp
}

func (a *testApp) user(t *testing.T) *models.User {
	t.Helper()
	u, err := a.repos.Users.FindByEmail(context.Background(), testEmail)
	if err != nil || u == nil {
		t.Fatalf("find user: %v %v", u, err)
	}
	return u
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status=%d, want 302", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("Location=%q, want %q", got, location)
	}
}

var csrfFieldRe = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// csrfFromPage extracts the hidden anti-forgery field from a rendered form.
func csrfFromPage(t *testing.T, body string) string {
	t.Helper()
	m := csrfFieldRe.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no csrf field in page:\n%s", body)
	}
	return html.UnescapeString(m[1])
}

// failingEventLog always fails to list.
type failingEventLog struct{}

func (failingEventLog) List(context.Context, service.LogFilter) ([]models.AccountEvent, error) {
	return nil, errors.New("boom")
}

// unwritableEvents rejects every audit append; reads go to an empty log.
type unwritableEvents struct {
	*repository.EventMemory
}

func (unwritableEvents) Append(context.Context, models.AccountEvent) error {
	return errors.New("database is locked")
}

func newAuditlessApp(t *testing.T, opts Options) *testApp {
	t.Helper()
	repos := repository.NewMemoryRepository()
	repos.Events = unwritableEvents{EventMemory: repository.NewEventMemory()}
	return newTestAppWithRepos(t, repos, opts, nil)
}

// failingAccount fails every mutation but still serves profiles.
type failingAccount struct {
	service.Account
}

func (failingAccount) UpdatePhone(context.Context, string, string) error {
	return errors.New("disk full")
}

func (failingAccount) Deactivate(context.Context, string, service.RequestOrigin) error {
	return errors.New("disk full")
}
