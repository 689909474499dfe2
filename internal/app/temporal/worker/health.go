package worker

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// healthState is the static part of the /health payload, captured at startup.
type healthState struct {
	WorkerID  string          `json:"worker_id"`
	TaskQueue string          `json:"task_queue"`
	StartedAt time.Time       `json:"started_at"`
	Providers []providerState `json:"providers"`
}

type providerState struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// healthServer serves /health, /live and /ready. It is plain net/http on
// purpose: the worker has no other HTTP surface and the probes must keep
// answering even while the task queue is saturated.
type healthServer struct {
	server *http.Server
	state  healthState
	ready  atomic.Bool
	log    *zap.Logger
}

func newHealthServer(addr string, state healthState, log *zap.Logger) *healthServer {
	hs := &healthServer{state: state, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", hs.handleHealth)
	mux.HandleFunc("/live", hs.handleLive)
	mux.HandleFunc("/ready", hs.handleReady)

	hs.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return hs
}

func (hs *healthServer) Start() {
	go func() {
		if err := hs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			hs.log.Error("health server failed", zap.Error(err))
		}
	}()
	hs.log.Info("health server started", zap.String("addr", hs.server.Addr))
}

func (hs *healthServer) Stop() {
	_ = hs.server.Close()
}

func (hs *healthServer) SetReady(ready bool) {
	hs.ready.Store(ready)
}

func (hs *healthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !hs.ready.Load() {
		status = "starting"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     status,
		"worker_id":  hs.state.WorkerID,
		"task_queue": hs.state.TaskQueue,
		"started_at": hs.state.StartedAt.UTC().Format(time.RFC3339),
		"uptime_sec": int(time.Since(hs.state.StartedAt).Seconds()),
		"providers":  hs.state.Providers,
	})
}

func (hs *healthServer) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (hs *healthServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if !hs.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
