// Package health samples process and host resource usage for the
// introspection API.
package health

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is one point-in-time resource reading.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	Uptime         string    `json:"uptime"`
	CPUPercent     float64   `json:"cpu_percent"`
	MemoryMB       float64   `json:"memory_mb"`
	HostMemoryUsed float64   `json:"host_memory_used_percent"`
	HostCPUPercent float64   `json:"host_cpu_percent"`
}

var started = time.Now()

// Sample reads current process and host usage. Fields that cannot be
// read on the platform are left zero.
func Sample() Snapshot {
	s := Snapshot{
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(started).Round(time.Second).String(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if pct, err := proc.CPUPercent(); err == nil {
			s.CPUPercent = pct
		}
		if mi, err := proc.MemoryInfo(); err == nil && mi != nil {
			s.MemoryMB = float64(mi.RSS) / (1024 * 1024)
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		s.HostMemoryUsed = vm.UsedPercent
	}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.HostCPUPercent = pcts[0]
	}

	return s
}
