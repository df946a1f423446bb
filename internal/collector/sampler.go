package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// CPUSampleWindow is how long CPU usage is measured for each status request.
const CPUSampleWindow = 300 * time.Millisecond

// Sampler reads host-level figures.
type Sampler interface {
	CPUPercent(ctx context.Context) (float64, error)
	RAMPercent(ctx context.Context) (float64, error)
	DiskTotal(ctx context.Context, path string) (uint64, error)
	BootTime(ctx context.Context) (time.Time, error)
}

// HostSampler is the gopsutil-backed Sampler.
type HostSampler struct {
	window time.Duration
}

func NewHostSampler() *HostSampler {
	return &HostSampler{window: CPUSampleWindow}
}

func (h *HostSampler) CPUPercent(ctx context.Context) (float64, error) {
	percentage, err := cpu.PercentWithContext(ctx, h.window, false)
	if err != nil {
		return 0, err
	}
	if len(percentage) == 0 {
		return 0, nil
	}
	return percentage[0], nil
}

func (h *HostSampler) RAMPercent(ctx context.Context) (float64, error) {
	virtualMemory, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return virtualMemory.UsedPercent, nil
}

func (h *HostSampler) DiskTotal(ctx context.Context, path string) (uint64, error) {
	if path == "" {
		path = "/"
	}
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.Total, nil
}

func (h *HostSampler) BootTime(ctx context.Context) (time.Time, error) {
	boot, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(boot), 0), nil
}
