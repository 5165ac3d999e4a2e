// Package monitoring turns a running simulation into an HTTP server so
// that its progress can be observed from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/vmsim/mem/vm"
)

// A StatsProvider exposes the counters of an address translator.
type StatsProvider interface {
	Name() string
	Stats() vm.TranslationStats
}

// Monitor serves the statistics of registered translators over HTTP.
type Monitor struct {
	portNumber  int
	translators []StatsProvider
	url         string
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Port 0 picks a
// random free port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterTranslator registers a translator to be monitored.
func (m *Monitor) RegisterTranslator(t StatsProvider) {
	m.translators = append(m.translators, t)
}

// StartServer starts the monitoring server in a separate goroutine and
// returns the URL it listens on.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp",
		fmt.Sprintf("localhost:%d", m.portNumber))
	if err != nil {
		return "", fmt.Errorf("starting monitoring server: %w", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/stats", m.serveStats)
	r.HandleFunc("/api/process", m.serveProcessInfo)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	m.url = "http://" + listener.Addr().String()
	fmt.Fprintf(os.Stderr, "Monitoring server started at %s\n", m.url)

	go func() {
		err := http.Serve(listener, r)
		if err != nil {
			panic(err)
		}
	}()

	return m.url, nil
}

// OpenStatusPage opens the stats endpoint in the default browser.
func (m *Monitor) OpenStatusPage() {
	err := browser.OpenURL(m.url + "/api/stats")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
	}
}

type translatorStats struct {
	Name          string  `json:"name"`
	Total         uint64  `json:"total"`
	PageFaults    uint64  `json:"page_faults"`
	PageFaultRate float64 `json:"page_fault_rate"`
	TLBHits       uint64  `json:"tlb_hits"`
	TLBHitRate    float64 `json:"tlb_hit_rate"`
}

func (m *Monitor) serveStats(w http.ResponseWriter, _ *http.Request) {
	all := make([]translatorStats, 0, len(m.translators))
	for _, t := range m.translators {
		stats := t.Stats()
		all = append(all, translatorStats{
			Name:          t.Name(),
			Total:         stats.Total,
			PageFaults:    stats.PageFaults,
			PageFaultRate: stats.PageFaultRate(),
			TLBHits:       stats.TLBHits,
			TLBHitRate:    stats.TLBHitRate(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(all)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type processInfo struct {
	PID        int32   `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
}

func (m *Monitor) serveProcessInfo(
	w http.ResponseWriter,
	_ *http.Request,
) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	info := processInfo{PID: p.Pid}

	cpuPercent, err := p.CPUPercent()
	if err == nil {
		info.CPUPercent = cpuPercent
	}

	memInfo, err := p.MemoryInfo()
	if err == nil {
		info.RSSBytes = memInfo.RSS
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(info)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
