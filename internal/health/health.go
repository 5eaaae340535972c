package health

import (
	"context"
	"encoding/json"
	"github.com/clambin/tstat-exporter/internal/poller"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Health serves the last update received from the poller. It reports unhealthy until the first update is received,
// or when the last update is older than MaxAge.
type Health struct {
	poller.Poller
	MaxAge time.Duration
	logger *slog.Logger
	update poller.Update
	lock   sync.RWMutex
}

type report struct {
	Status   string          `json:"status"`
	Age      string          `json:"age,omitempty"`
	Readings poller.Readings `json:"readings,omitempty"`
}

func New(p poller.Poller, maxAge time.Duration, logger *slog.Logger) *Health {
	return &Health{
		Poller: p,
		MaxAge: maxAge,
		logger: logger,
	}
}

func (h *Health) Run(ctx context.Context) error {
	h.logger.Debug("started")
	defer h.logger.Debug("stopped")

	ch := h.Poller.Subscribe()
	defer h.Poller.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-ch:
			h.lock.Lock()
			h.update = update
			h.lock.Unlock()
		}
	}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.lock.RLock()
	update := h.update
	h.lock.RUnlock()

	if update.Timestamp.IsZero() {
		h.Poller.Refresh()
		writeReport(w, http.StatusServiceUnavailable, report{Status: "no update yet"})
		return
	}

	r := report{Status: "ok", Age: time.Since(update.Timestamp).Round(time.Second).String(), Readings: update.Readings}
	status := http.StatusOK
	if h.MaxAge > 0 && time.Since(update.Timestamp) > h.MaxAge {
		h.Poller.Refresh()
		r.Status = "stale"
		status = http.StatusServiceUnavailable
	}
	writeReport(w, status, r)
}

func writeReport(w http.ResponseWriter, status int, r report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(r)
}
