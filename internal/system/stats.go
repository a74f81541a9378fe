package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time snapshot for the performance report.
type Stats struct {
	CPUCores       int
	ProcessRSSMB   float64
	MemUsedPercent float64
}

// Snapshot gathers host and process figures. Missing fields are left zero;
// a stats failure never fails the run.
func Snapshot() Stats {
	var s Stats

	if cores, err := cpu.Counts(true); err == nil {
		s.CPUCores = cores
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemUsedPercent = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			s.ProcessRSSMB = float64(mi.RSS) / (1024 * 1024)
		}
	}
	return s
}
