package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"skypop/internal/sim"
)

// mockEngine records commands instead of simulating.
type mockEngine struct {
	mu       sync.Mutex
	phase    sim.Phase
	snapshot sim.HudSnapshot

	activateCalls int
	anchorCalls   []struct{ x, y float64 }
	fireCalls     int
	stopCalls     int
	resetCalls    int
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		phase: sim.PhaseActive,
		snapshot: sim.HudSnapshot{
			Phase:     sim.PhaseActive,
			Mode:      "portal",
			Score:     30,
			Kills:     3,
			Pops:      2,
			Remaining: 45.5,
			Entities: []sim.EntitySnapshot{
				{Behavior: "approach", Z: 1.5},
			},
		},
	}
}

func (m *mockEngine) Snapshot() *sim.HudSnapshot { return &m.snapshot }
func (m *mockEngine) Phase() sim.Phase           { return m.phase }

func (m *mockEngine) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateCalls++
}

func (m *mockEngine) SelectAnchor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anchorCalls = append(m.anchorCalls, struct{ x, y float64 }{x, y})
}

func (m *mockEngine) Fire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fireCalls++
}

func (m *mockEngine) EndSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
}

func (m *mockEngine) ResetSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
}

func (m *mockEngine) GetEventLogStats() map[string]interface{} {
	return map[string]interface{}{"total": uint64(7)}
}

func (m *mockEngine) Config() sim.Config { return sim.DefaultConfig() }

// testRouter builds a router with logging off and an effectively unlimited
// rate budget.
func testRouter(engine EngineInterface) http.Handler {
	return NewRouter(RouterConfig{
		Engine: engine,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 100000,
			Burst:             100000,
			CleanupInterval:   time.Minute,
		},
		DisableLogging: true,
	})
}

func TestGetState(t *testing.T) {
	engine := newMockEngine()
	router := testRouter(engine)

	req := httptest.NewRequest("GET", "/api/session/state", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}

	var snap sim.HudSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Score != 30 || snap.Mode != "portal" || len(snap.Entities) != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestGetStats(t *testing.T) {
	router := testRouter(newMockEngine())

	req := httptest.NewRequest("GET", "/api/session/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["phase"] != "active" {
		t.Errorf("phase %v, want active", stats["phase"])
	}
	if stats["score"].(float64) != 30 {
		t.Errorf("score %v, want 30", stats["score"])
	}
	if _, ok := stats["eventLog"]; !ok {
		t.Error("eventLog stats missing")
	}
}

func TestCommandEndpointsQueueIntents(t *testing.T) {
	engine := newMockEngine()
	router := testRouter(engine)

	posts := []string{"/api/session/activate", "/api/session/fire", "/api/session/stop", "/api/session/reset"}
	for _, path := range posts {
		req := httptest.NewRequest("POST", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d, want 200", path, w.Code)
		}
	}

	if engine.activateCalls != 1 || engine.fireCalls != 1 || engine.stopCalls != 1 || engine.resetCalls != 1 {
		t.Errorf("calls activate=%d fire=%d stop=%d reset=%d, want 1 each",
			engine.activateCalls, engine.fireCalls, engine.stopCalls, engine.resetCalls)
	}
}

func TestSelectAnchorValidation(t *testing.T) {
	engine := newMockEngine()
	router := testRouter(engine)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"valid center", `{"x":0.5,"y":0.5}`, http.StatusOK},
		{"valid corner", `{"x":0,"y":1}`, http.StatusOK},
		{"x out of range", `{"x":1.5,"y":0.5}`, http.StatusBadRequest},
		{"negative y", `{"x":0.5,"y":-0.1}`, http.StatusBadRequest},
		{"garbage body", `not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/session/anchor", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Errorf("status %d, want %d", w.Code, tt.code)
			}
		})
	}

	if len(engine.anchorCalls) != 2 {
		t.Fatalf("anchor queued %d times, want 2", len(engine.anchorCalls))
	}
	if engine.anchorCalls[0].x != 0.5 || engine.anchorCalls[0].y != 0.5 {
		t.Errorf("first anchor call %+v", engine.anchorCalls[0])
	}
}

func TestMinimapEndpoint(t *testing.T) {
	router := testRouter(newMockEngine())

	req := httptest.NewRequest("GET", "/api/session/minimap.png", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type %q, want image/png", ct)
	}
	// PNG magic bytes.
	body := w.Body.Bytes()
	if len(body) < 8 || body[0] != 0x89 || string(body[1:4]) != "PNG" {
		t.Error("response is not a PNG")
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := testRouter(newMockEngine())

	req := httptest.NewRequest("GET", "/api/session/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404", w.Code)
	}
}

func TestRateLimitRejectsFloods(t *testing.T) {
	router := NewRouter(RouterConfig{
		Engine: newMockEngine(),
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             3,
			CleanupInterval:   time.Minute,
		},
		DisableLogging: true,
	})

	var rejected int
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/session/state", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			rejected++
			if w.Header().Get("Retry-After") == "" {
				t.Error("429 without Retry-After header")
			}
		}
	}
	if rejected == 0 {
		t.Error("expected the flood to trip the rate limiter")
	}
}
