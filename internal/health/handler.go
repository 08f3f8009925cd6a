package health

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"kis-tradegw/internal/httputil"
	"kis-tradegw/internal/journal"
)

type Handler struct {
	journal    *journal.Store
	startedAt  time.Time
	brokerMode string
	httpAddr   string
}

// NewHandler builds the health surface. journal may be nil when auditing is
// disabled; brokerMode is one of real, virtual or disabled.
func NewHandler(j *journal.Store, startedAt time.Time, brokerMode, httpAddr string) *Handler {
	start := startedAt.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Handler{
		journal:    j,
		startedAt:  start,
		brokerMode: strings.TrimSpace(brokerMode),
		httpAddr:   strings.TrimSpace(httpAddr),
	}
}

type liveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_sec"`
	Uptime    string `json:"uptime"`
}

type journalStat struct {
	Enabled   bool   `json:"enabled"`
	Reachable bool   `json:"reachable"`
	PingMs    int64  `json:"ping_ms"`
	Error     string `json:"error,omitempty"`
}

type readyResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	UptimeSec  int64       `json:"uptime_sec"`
	Uptime     string      `json:"uptime"`
	BrokerMode string      `json:"broker_mode"`
	HTTPAddr   string      `json:"http_addr"`
	Goroutines int         `json:"goroutines"`
	Journal    journalStat `json:"journal"`
}

func (h *Handler) uptime(now time.Time) time.Duration {
	u := now.Sub(h.startedAt)
	if u < 0 {
		return 0
	}
	return u
}

func (h *Handler) pingJournal(ctx context.Context) journalStat {
	if h.journal == nil {
		return journalStat{Enabled: false}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	start := time.Now()
	err := h.journal.Ping(ctx)
	stat := journalStat{Enabled: true, Reachable: err == nil, PingMs: time.Since(start).Milliseconds()}
	if err != nil {
		stat.Error = err.Error()
	}
	return stat
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	uptime := h.uptime(now)
	httputil.WriteJSON(w, http.StatusOK, liveResponse{
		Status:    "ok",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: int64(uptime.Seconds()),
		Uptime:    uptime.String(),
	})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	uptime := h.uptime(now)
	js := h.pingJournal(r.Context())

	status := "ok"
	httpStatus := http.StatusOK
	if js.Enabled && !js.Reachable {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, httpStatus, readyResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		UptimeSec:  int64(uptime.Seconds()),
		Uptime:     uptime.String(),
		BrokerMode: h.brokerMode,
		HTTPAddr:   h.httpAddr,
		Goroutines: runtime.NumGoroutine(),
		Journal:    js,
	})
}

// Metrics exposes a handful of Prometheus-style gauges.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	uptime := h.uptime(now)
	js := h.pingJournal(r.Context())
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	journalUp := 0
	if js.Reachable {
		journalUp = 1
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "# HELP tradegw_up Service process is running.\n")
	_, _ = fmt.Fprintf(w, "# TYPE tradegw_up gauge\n")
	_, _ = fmt.Fprintf(w, "tradegw_up 1\n")
	_, _ = fmt.Fprintf(w, "tradegw_uptime_seconds %d\n", int64(uptime.Seconds()))
	_, _ = fmt.Fprintf(w, "tradegw_journal_up %d\n", journalUp)
	_, _ = fmt.Fprintf(w, "tradegw_go_goroutines %d\n", runtime.NumGoroutine())
	_, _ = fmt.Fprintf(w, "tradegw_go_mem_alloc_bytes %d\n", mem.Alloc)
	_, _ = fmt.Fprintf(w, "tradegw_go_mem_sys_bytes %d\n", mem.Sys)
	_, _ = fmt.Fprintf(w, "tradegw_go_gc_count %d\n", mem.NumGC)
	_, _ = fmt.Fprintf(w, "tradegw_pid %d\n", os.Getpid())
}
