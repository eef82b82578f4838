package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"feed_csrf/internal/models"
	"feed_csrf/internal/service"
)

type eventsResponse struct {
	Count  int                   `json:"count"`
	Events []models.AccountEvent `json:"events"`
	Error  string                `json:"error"`
}

func getEventsJSON(t *testing.T, app *testApp, query string) (int, eventsResponse) {
	t.Helper()
	resp, body := app.get(t, "/api/v1/events"+query)
	var out eventsResponse
	if resp.StatusCode != http.StatusFound {
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("decode %q: %v", body, err)
		}
	}
	return resp.StatusCode, out
}

func TestGetEvents(t *testing.T) {
	app := newTestApp(t, Options{}, nil)
	app.login(t, testEmail, "bad")
	app.get(t, routeLogin) // drop flash
	app.login(t, testEmail, testPassword)

	today := time.Now().UTC().Format(layoutDate)
	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
	}{
		{"all", "", http.StatusOK, 2},
		{"by type", "?type=login", http.StatusOK, 1},
		{"failed only", "?type=LOGIN_FAILED", http.StatusOK, 1},
		{"date-only to covers today", "?from=" + today + "&to=" + today, http.StatusOK, 2},
		{"range in the past", "?to=2000-01-01", http.StatusOK, 0},
		{"bad from", "?from=yesterday", http.StatusBadRequest, 0},
		{"bad to", "?to=13/13/13", http.StatusBadRequest, 0},
		{"from after to", "?from=2030-01-02&to=2030-01-01", http.StatusBadRequest, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out := getEventsJSON(t, app, tc.query)
			if code != tc.wantCode {
				t.Fatalf("status=%d, want %d (%s)", code, tc.wantCode, out.Error)
			}
			if code == http.StatusOK && out.Count != tc.wantCount {
				t.Fatalf("count=%d, want %d: %+v", out.Count, tc.wantCount, out.Events)
			}
		})
	}
}

func TestGetEvents_OnlyOwnAccount(t *testing.T) {
	app := newTestApp(t, Options{}, nil)
	app.login(t, "robin@obawim.com", "x")
	app.get(t, routeLogin)
	app.login(t, testEmail, testPassword)

	_, out := getEventsJSON(t, app, "")
	for _, e := range out.Events {
		if e.Email != testEmail {
			t.Fatalf("foreign event leaked: %+v", e)
		}
	}
}

func TestGetEvents_ServiceError(t *testing.T) {
	app := newTestApp(t, Options{}, func(s *service.Service) {
		s.EventLog = failingEventLog{}
	})
	app.login(t, testEmail, testPassword)

	code, out := getEventsJSON(t, app, "")
	if code != http.StatusInternalServerError || out.Error == "" {
		t.Fatalf("status=%d body=%+v", code, out)
	}
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-10-19T08:30:00+02:00", time.Date(2026, 10, 19, 6, 30, 0, 0, time.UTC), false},
		{"2026-10-19 08:30:00", time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC), false},
		{"2026-10-19", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), false},
		{"19.10.2026", time.Time{}, true},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: err=%v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEventsQuery_Filter(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		q          eventsQuery
		wantReason string
		wantTo     time.Time
		wantType   string
	}{
		{name: "empty", q: eventsQuery{}},
		{name: "type normalized", q: eventsQuery{Type: " logout "}, wantType: "LOGOUT"},
		{name: "date-only to is end of day", q: eventsQuery{To: "2026-10-19"}, wantTo: day.Add(24*time.Hour - time.Nanosecond)},
		{name: "to with time kept", q: eventsQuery{To: "2026-10-19 10:00:00"}, wantTo: day.Add(10 * time.Hour)},
		{name: "bad from", q: eventsQuery{From: "soon"}, wantReason: errFromInvalid},
		{name: "inverted", q: eventsQuery{From: "2026-10-20", To: "2026-10-19"}, wantReason: errRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, reason := tc.q.filter(testEmail)
			if reason != tc.wantReason {
				t.Fatalf("reason=%q, want %q", reason, tc.wantReason)
			}
			if reason != "" {
				return
			}
			if f.Email != testEmail || f.Type != tc.wantType || !f.To.Equal(tc.wantTo) {
				t.Fatalf("filter=%+v", f)
			}
		})
	}
}
