package sysmon

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/marcus-v-rodrigues/pump-monitoring/internal/ports"
)

// HostProbe reads host utilisation through gopsutil.
type HostProbe struct {
	DiskPath string
}

func NewHostProbe(diskPath string) *HostProbe {
	if diskPath == "" {
		diskPath = "/"
	}
	return &HostProbe{DiskPath: diskPath}
}

func (p *HostProbe) Probe(ctx context.Context) (ports.SystemUsage, error) {
	// Zero interval compares against the previous call instead of blocking.
	cpuPct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return ports.SystemUsage{}, fmt.Errorf("cpu percent: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return ports.SystemUsage{}, fmt.Errorf("virtual memory: %w", err)
	}
	du, err := disk.UsageWithContext(ctx, p.DiskPath)
	if err != nil {
		return ports.SystemUsage{}, fmt.Errorf("disk usage %s: %w", p.DiskPath, err)
	}

	var usage ports.SystemUsage
	if len(cpuPct) > 0 {
		usage.CPUPercent = cpuPct[0]
	}
	usage.MemoryPercent = vm.UsedPercent
	usage.DiskPercent = du.UsedPercent
	return usage, nil
}

var _ ports.ResourceProbe = (*HostProbe)(nil)
