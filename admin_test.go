package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func adminGet(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "test-token"})
	return serve(r, req)
}

func login(r http.Handler, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(r, req)
}

func TestAdminLogin(t *testing.T) {
	r := newTestRouter(t, newTestSite(t))

	w := login(r, "admin", "secret")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/dashboard" {
		t.Errorf("redirect = %q", loc)
	}
	if c := w.Header().Get("Set-Cookie"); !strings.Contains(c, "admin_token=test-token") || !strings.Contains(c, "HttpOnly") {
		t.Errorf("cookie = %q", c)
	}

	w = login(r, "admin", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Error("login page does not report the failure")
	}
	if w.Header().Get("Set-Cookie") != "" {
		t.Error("failed login set a cookie")
	}
}

func TestAdminLogout(t *testing.T) {
	r := newTestRouter(t, newTestSite(t))

	w := adminGet(r, "/admin/logout")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if c := w.Header().Get("Set-Cookie"); !strings.Contains(c, "Max-Age=0") {
		t.Errorf("cookie not cleared: %q", c)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, newTestSite(t))

	paths := []string{"/admin/dashboard", "/admin/api/stats", "/admin/visitors", "/admin/export/stats", "/admin/export/visitors.csv"}
	for _, path := range paths {
		w := get(r, path)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
			t.Errorf("%s without token: status=%d location=%q", path, w.Code, w.Header().Get("Location"))
		}

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: "admin_token", Value: "stale"})
		if w := serve(r, req); w.Code != http.StatusFound {
			t.Errorf("%s with stale token: status=%d", path, w.Code)
		}

		if w := adminGet(r, path); w.Code != http.StatusOK {
			t.Errorf("%s with token: status=%d", path, w.Code)
		}
	}
}

func TestAdminStatsAPI(t *testing.T) {
	site := newTestSite(t)
	r := newTestRouter(t, site)

	get(r, "/")
	get(r, "/projects/nepal")

	w := adminGet(r, "/admin/api/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var stats AdminStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalVisitors != 1 || stats.TotalProjectViews != 1 || stats.TotalProjects != 6 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TopProjects[0].Key != "nepal" {
		t.Errorf("top project = %+v", stats.TopProjects[0])
	}
}

func TestVisitorCSVExport(t *testing.T) {
	site := newTestSite(t)
	r := newTestRouter(t, site)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "test-agent")
	serve(r, req)

	w := adminGet(r, "/admin/export/visitors.csv")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d: %q", len(lines), w.Body.String())
	}
	if lines[0] != "id,hashed_ip,user_agent,path,timestamp" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "test-agent") || !strings.Contains(lines[1], site.auth.hashIP("192.0.2.1")) {
		t.Errorf("row = %q", lines[1])
	}
}

func TestPrivacyCleanupEndpoint(t *testing.T) {
	site := newTestSite(t)
	r := newTestRouter(t, site)
	ctx := context.Background()

	old := VisitorMetric{HashedIP: "old", Path: "/", Timestamp: testNow.AddDate(-2, 0, 0)}
	recent := VisitorMetric{HashedIP: "new", Path: "/", Timestamp: testNow}
	for _, v := range []VisitorMetric{old, recent} {
		if err := site.store.RecordVisit(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/privacy/delete-visitor-data", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "test-token"})
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	visitors, err := site.store.Visitors(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(visitors) != 1 || visitors[0].HashedIP != "new" {
		t.Errorf("visitors after cleanup = %+v", visitors)
	}
}

func TestHashIP(t *testing.T) {
	a := &adminAuth{salt: "one"}
	b := &adminAuth{salt: "two"}

	if a.hashIP("10.0.0.1") != a.hashIP("10.0.0.1") {
		t.Error("hash is not stable for one salt")
	}
	if a.hashIP("10.0.0.1") == a.hashIP("10.0.0.2") {
		t.Error("different addresses share a hash")
	}
	if a.hashIP("10.0.0.1") == b.hashIP("10.0.0.1") {
		t.Error("salt does not change the hash")
	}
	if h := a.hashIP("10.0.0.1"); len(h) != 16 || strings.Contains(h, "10.0.0.1") {
		t.Errorf("hash = %q", h)
	}
}

func TestNewAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	env := map[string]string{"ADMIN_USERNAME": "ops", "ADMIN_PASSWORD": "hunter2"}
	a, err := newAdminAuth(func(k string) string { return env[k] })
	if err != nil {
		t.Fatal(err)
	}
	if !a.checkCredentials("ops", "hunter2") || a.checkCredentials("admin", "admin123") {
		t.Error("environment credentials not applied")
	}
	if len(a.token) != 64 || len(a.salt) != 64 {
		t.Errorf("token/salt lengths = %d/%d", len(a.token), len(a.salt))
	}

	d, err := newAdminAuth(func(string) string { return "" })
	if err != nil {
		t.Fatal(err)
	}
	if !d.checkCredentials("admin", "admin123") {
		t.Error("development defaults not applied")
	}
	if d.token == a.token {
		t.Error("tokens repeat across instances")
	}
}
