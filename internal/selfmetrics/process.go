// Package selfmetrics renders the exporter's own process telemetry as an
// exposition block appended to the scrape output.
package selfmetrics

import (
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"apcexporter/internal/metrics"
)

// Collector reads process stats for the running exporter.
// Params: none.
// Returns: reusable self-telemetry source.
type Collector struct {
	proc *process.Process
}

// NewCollector creates a collector bound to the current process.
// Params: none.
// Returns: collector or process handle error.
func NewCollector() (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process handle: %w", err)
	}
	return &Collector{proc: proc}, nil
}

// Render produces the process telemetry exposition block. Stats a platform
// cannot provide are skipped rather than failing the scrape.
// Params: none.
// Returns: exposition text, possibly empty.
func (c *Collector) Render() string {
	var b strings.Builder

	if mem, err := c.proc.MemoryInfo(); err == nil && mem != nil {
		metrics.AppendBlock(&b,
			"apcupsd_exporter_process_resident_memory_bytes",
			"Resident memory size of the exporter process.",
			metrics.Gauge, nil, float64(mem.RSS))
	}

	if times, err := c.proc.Times(); err == nil && times != nil {
		metrics.AppendBlock(&b,
			"apcupsd_exporter_process_cpu_seconds_total",
			"Total user and system CPU time spent by the exporter process.",
			metrics.Counter, nil, times.User+times.System)
	}

	if fds, err := c.proc.NumFDs(); err == nil {
		metrics.AppendBlock(&b,
			"apcupsd_exporter_process_open_fds",
			"Number of open file descriptors of the exporter process.",
			metrics.Gauge, nil, float64(fds))
	}

	if created, err := c.proc.CreateTime(); err == nil {
		metrics.AppendBlock(&b,
			"apcupsd_exporter_process_start_time_seconds",
			"Start time of the exporter process since unix epoch.",
			metrics.Gauge, nil, float64(created)/1000)
	}

	return b.String()
}
