package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/halmert/pagemason/internal/db"
	"github.com/halmert/pagemason/internal/editor"
	"github.com/halmert/pagemason/internal/engine"
	"github.com/halmert/pagemason/internal/project"
	"github.com/halmert/pagemason/internal/settings"
	"github.com/halmert/pagemason/internal/theme"
)

func newTestServer(t *testing.T) (*Server, *editor.ManualScheduler) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	dom := engine.NewDOM()
	if err := dom.LoadDocument(`<section><h1>Hello</h1></section>`, "body{margin:0}"); err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}

	sched := &editor.ManualScheduler{}
	ctrl := editor.NewController(sched)
	ctrl.Attach(dom)

	store, err := settings.NewStore(database, settings.DefaultValues())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	projects := project.NewStore(database)

	host := theme.NewHostPreference(theme.SchemeLight)
	resolver := theme.NewResolver(store.Values().Theme, host)
	t.Cleanup(resolver.Close)

	srv := New(Config{Port: 0}, database, dom, ctrl, store, projects, resolver, host)
	return srv, sched
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.cfg.AllowAll = true
	srv.router = srv.buildRouter()

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestIndexServesEditorPage(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), `id="editor"`) {
		t.Error("editor page missing the source textarea")
	}
}

func TestComponentsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/components", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var list []engine.NodeInfo
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// section and its h1, in document order.
	if len(list) != 2 || list[0].Tag != "section" || list[1].Tag != "h1" {
		t.Errorf("unexpected components: %+v", list)
	}
}

func TestThemeEndpointFollowsSettings(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"theme":"dark"}`)
	req := httptest.NewRequest("PUT", "/api/settings", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("settings update: expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/theme", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["choice"] != "dark" || got["resolved"] != "dark" {
		t.Errorf("expected dark/dark, got %+v", got)
	}
}

func TestExportUsesSettings(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.NewReader(`{"head":{"page_title":"My Page","export_base_name":"my page"}}`)
	req := httptest.NewRequest("PUT", "/api/settings", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("settings update: expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/api/export", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", w.Code)
	}

	var bundle struct {
		Base  string `json:"base"`
		Files []struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if bundle.Base != "my-page" {
		t.Errorf("expected sanitized base 'my-page', got %q", bundle.Base)
	}
	if len(bundle.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(bundle.Files))
	}
	if !strings.Contains(bundle.Files[0].Content, "<title>My Page</title>") {
		t.Error("exported document missing configured title")
	}
	if !strings.Contains(bundle.Files[0].Content, "<h1>Hello</h1>") {
		t.Error("exported document missing the loaded markup")
	}
}

func TestWebSocketPushesInitialState(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var first struct {
		Type   string         `json:"type"`
		Source *editor.Source `json:"source"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read: %v", err)
	}
	if first.Type != "source" || first.Source == nil {
		t.Fatalf("expected initial source push, got %+v", first)
	}
	if !strings.Contains(first.Source.HTML, "<h1>") {
		t.Errorf("initial source missing markup: %q", first.Source.HTML)
	}

	var second struct {
		Type   string `json:"type"`
		Scheme string `json:"scheme"`
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read: %v", err)
	}
	if second.Type != "theme" || second.Scheme != "light" {
		t.Errorf("expected light theme push, got %+v", second)
	}
}
