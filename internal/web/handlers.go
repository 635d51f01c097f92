package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"math"
	"net/http"
	"sync"
	"time"
)

// Overrides holds mission parameters that can override config defaults.
// Zero values mean "use the config default".
type Overrides struct {
	FollowDurationS int     `json:"follow_duration_s"`
	TargetLight     float64 `json:"target_light"`
	Readings        int     `json:"readings"`
}

// ValidateOverrides checks that non-zero override values are sane.
func ValidateOverrides(o Overrides) error {
	if o.FollowDurationS < 0 {
		return fmt.Errorf("follow_duration_s must be >= 0, got %d", o.FollowDurationS)
	}
	if math.IsNaN(o.TargetLight) || math.IsInf(o.TargetLight, 0) || o.TargetLight < 0 {
		return fmt.Errorf("target_light must be a number >= 0, got %g", o.TargetLight)
	}
	if o.Readings < 0 {
		return fmt.Errorf("readings must be >= 0, got %d", o.Readings)
	}
	return nil
}

// RunMissionFunc runs a mission with the given overrides.
// It is called from the POST /run handler in a goroutine.
type RunMissionFunc func(ctx context.Context, overrides Overrides) error

// FormConfig holds default values for the mission form (from config).
type FormConfig struct {
	FollowDurationS int     `json:"follow_duration_s"`
	TargetLight     float64 `json:"target_light"`
	Readings        int     `json:"readings"`
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster  *StatusBroadcaster
	RunMission   RunMissionFunc
	FormDefaults FormConfig
	runningMu    sync.Mutex
	running      bool
	staticFS     fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If runMission is nil, POST /run will return 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, runMission RunMissionFunc, formDefaults FormConfig, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster:  broadcaster,
		RunMission:   runMission,
		FormDefaults: formDefaults,
		staticFS:     staticFS,
	}
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.FormDefaults)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleRun handles POST /run to start a mission.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var overrides Overrides
	if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := ValidateOverrides(overrides); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.RunMission == nil {
		http.Error(w, "mission not configured", http.StatusServiceUnavailable)
		return
	}

	h.runningMu.Lock()
	if h.running {
		h.runningMu.Unlock()
		http.Error(w, "mission already in progress", http.StatusConflict)
		return
	}
	h.running = true
	h.runningMu.Unlock()

	// Run in goroutine; clear running when done
	go func() {
		defer func() {
			h.runningMu.Lock()
			h.running = false
			h.runningMu.Unlock()
		}()

		ctx := context.Background()
		if err := h.RunMission(ctx, overrides); err != nil {
			h.Broadcaster.Broadcast("error", "Mission failed: "+err.Error())
			log.Printf("mission failed: %v", err)
		} else {
			h.Broadcaster.Broadcast("info", "Mission complete")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "started"})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
