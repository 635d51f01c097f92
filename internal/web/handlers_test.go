package web

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

// ---------- ValidateOverrides ----------

func TestValidateOverrides_Valid(t *testing.T) {
	cases := []struct {
		name string
		o    Overrides
	}{
		{"all_defaults", Overrides{0, 0, 0}},
		{"typical", Overrides{20, 90, 50}},
		{"duration_only", Overrides{5, 0, 0}},
		{"short_run", Overrides{1, 50, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateOverrides(tc.o); err != nil {
				t.Errorf("expected valid, got: %v", err)
			}
		})
	}
}

func TestValidateOverrides_Negative(t *testing.T) {
	cases := []struct {
		name string
		o    Overrides
	}{
		{"duration_negative", Overrides{-1, 90, 50}},
		{"target_negative", Overrides{20, -5, 50}},
		{"readings_negative", Overrides{20, 90, -10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateOverrides(tc.o); err == nil {
				t.Error("expected error for negative value, got nil")
			}
		})
	}
}

func TestValidateOverrides_NonFiniteTarget(t *testing.T) {
	cases := []struct {
		name   string
		target float64
	}{
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
		{"-Inf", math.Inf(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateOverrides(Overrides{TargetLight: tc.target}); err == nil {
				t.Error("expected error for non-finite target_light, got nil")
			}
		})
	}
}

// ---------- Handler helpers ----------

func newTestHandlers(runMission RunMissionFunc) *Handlers {
	staticFS := fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte("<html>test</html>")},
	}
	return NewHandlers(
		NewStatusBroadcaster(),
		runMission,
		FormConfig{
			FollowDurationS: 20,
			TargetLight:     90,
			Readings:        50,
		},
		staticFS,
	)
}

func noopMission(_ context.Context, _ Overrides) error {
	return nil
}

func validOverridesJSON() []byte {
	data, _ := json.Marshal(Overrides{20, 90, 50})
	return data
}

// ---------- HandleRun ----------

func TestHandleRun_ValidPost(t *testing.T) {
	h := newTestHandlers(noopMission)
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(validOverridesJSON()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRun(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", w.Code, http.StatusAccepted)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "started" {
		t.Errorf("response status = %q, want \"started\"", resp["status"])
	}

	// Wait for goroutine to finish
	time.Sleep(100 * time.Millisecond)
}

func TestHandleRun_GetMethodNotAllowed(t *testing.T) {
	h := newTestHandlers(noopMission)
	req := httptest.NewRequest(http.MethodGet, "/run", nil)
	w := httptest.NewRecorder()

	h.HandleRun(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleRun_InvalidJSON(t *testing.T) {
	h := newTestHandlers(noopMission)
	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	h.HandleRun(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleRun_InvalidOverrides(t *testing.T) {
	h := newTestHandlers(noopMission)
	data, _ := json.Marshal(Overrides{-1, 90, 50})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(data))
	w := httptest.NewRecorder()

	h.HandleRun(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleRun_NilRunMission(t *testing.T) {
	h := newTestHandlers(nil)
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(validOverridesJSON()))
	w := httptest.NewRecorder()

	h.HandleRun(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestHandleRun_ConcurrentMission(t *testing.T) {
	// Simulate a long-running mission
	started := make(chan struct{})
	blocking := make(chan struct{})
	slowMission := func(_ context.Context, _ Overrides) error {
		close(started)
		<-blocking
		return nil
	}

	h := newTestHandlers(slowMission)

	// First request starts the mission
	req1 := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(validOverridesJSON()))
	w1 := httptest.NewRecorder()
	h.HandleRun(w1, req1)
	if w1.Code != http.StatusAccepted {
		t.Fatalf("first request: status = %d, want %d", w1.Code, http.StatusAccepted)
	}

	// Wait for goroutine to start
	<-started

	// Second request should be rejected as already running
	req2 := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(validOverridesJSON()))
	w2 := httptest.NewRecorder()
	h.HandleRun(w2, req2)

	if w2.Code != http.StatusConflict {
		t.Errorf("concurrent request: status = %d, want %d", w2.Code, http.StatusConflict)
	}

	close(blocking) // unblock first mission
	time.Sleep(100 * time.Millisecond)
}

func TestHandleRun_FailureIsBroadcast(t *testing.T) {
	failing := func(_ context.Context, _ Overrides) error {
		return context.DeadlineExceeded
	}
	h := newTestHandlers(failing)

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(validOverridesJSON()))
	w := httptest.NewRecorder()
	h.HandleRun(w, req)

	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Level != "error" {
			t.Errorf("level = %q, want \"error\"", evt.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for failure broadcast")
	}
}

// ---------- HandleConfig ----------

func TestHandleConfig(t *testing.T) {
	h := newTestHandlers(noopMission)
	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	w := httptest.NewRecorder()

	h.HandleConfig(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var fc FormConfig
	if err := json.NewDecoder(w.Body).Decode(&fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fc.FollowDurationS != 20 {
		t.Errorf("FollowDurationS = %d, want 20", fc.FollowDurationS)
	}
	if fc.TargetLight != 90 {
		t.Errorf("TargetLight = %v, want 90", fc.TargetLight)
	}
	if fc.Readings != 50 {
		t.Errorf("Readings = %d, want 50", fc.Readings)
	}
}

// ---------- ServeIndex ----------

func TestServeIndex(t *testing.T) {
	h := newTestHandlers(noopMission)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	h.ServeIndex(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", ct)
	}
	if !strings.Contains(w.Body.String(), "<html>") {
		t.Error("body should contain HTML content")
	}
}
