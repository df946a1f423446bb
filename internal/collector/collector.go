package collector

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/prabalesh/paneltop/internal/models"
)

// DefaultLogLines is how many trailing log lines Logs returns when asked for
// zero or fewer.
const DefaultLogLines = 50

// Options configures a Collector.
type Options struct {
	// Root is the panel's public root. Storage usage is measured against it.
	Root string
	// AppsDir holds one directory per deployed app. Defaults to Root/Apps.
	AppsDir string
	// LogFile is tailed by Logs. Defaults to Root/logs/app.log.
	LogFile  string
	CacheTTL time.Duration
	Sampler  Sampler
	Logger   *slog.Logger
}

// Collector gathers the panel's status, per-app storage and logs.
type Collector struct {
	root    string
	appsDir string
	logFile string
	sampler Sampler
	cache   *SizeCache
	logger  *slog.Logger
}

func New(opts Options) *Collector {
	appsDir := opts.AppsDir
	if appsDir == "" {
		appsDir = filepath.Join(opts.Root, "Apps")
	}
	logFile := opts.LogFile
	if logFile == "" {
		logFile = filepath.Join(opts.Root, "logs", "app.log")
	}
	sampler := opts.Sampler
	if sampler == nil {
		sampler = NewHostSampler()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Collector{
		root:    opts.Root,
		appsDir: appsDir,
		logFile: logFile,
		sampler: sampler,
		cache:   NewSizeCache(opts.CacheTTL),
		logger:  logger,
	}
}

// Status samples CPU and RAM, measures the root's footprint and reports
// host uptime.
func (c *Collector) Status(ctx context.Context) (models.StatusSnapshot, error) {
	cpu, err := c.sampler.CPUPercent(ctx)
	if err != nil {
		return models.StatusSnapshot{}, fmt.Errorf("failed to sample cpu: %w", err)
	}

	ram, err := c.sampler.RAMPercent(ctx)
	if err != nil {
		return models.StatusSnapshot{}, fmt.Errorf("failed to sample memory: %w", err)
	}

	storage, err := c.Storage(ctx)
	if err != nil {
		return models.StatusSnapshot{}, err
	}

	boot, err := c.sampler.BootTime(ctx)
	if err != nil {
		return models.StatusSnapshot{}, fmt.Errorf("failed to read boot time: %w", err)
	}

	return models.StatusSnapshot{
		CPU:     cpu,
		RAM:     ram,
		Storage: storage,
		Uptime:  FormatUptime(time.Since(boot)),
	}, nil
}

// Storage compares the size of the root tree with its filesystem's capacity.
func (c *Collector) Storage(ctx context.Context) (models.StorageUsage, error) {
	used, _, err := c.cachedSize(ctx, c.root)
	if err != nil {
		return models.StorageUsage{}, fmt.Errorf("failed to measure %s: %w", c.root, err)
	}

	total, err := c.sampler.DiskTotal(ctx, c.root)
	if err != nil {
		return models.StorageUsage{}, fmt.Errorf("failed to read filesystem size: %w", err)
	}

	return models.StorageUsage{
		Used:    used,
		Total:   total,
		Percent: percentOf(used, total),
	}, nil
}

// AppsStorage lists every app directory by name with its size and share of
// the combined total. A missing apps directory yields an empty list.
func (c *Collector) AppsStorage(ctx context.Context) (models.AppsStorage, error) {
	entries, err := os.ReadDir(c.appsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return models.AppsStorage{Apps: []models.AppStorageEntry{}}, nil
		}
		return models.AppsStorage{}, fmt.Errorf("failed to list apps: %w", err)
	}

	apps := make([]models.AppStorageEntry, 0, len(entries))
	var total uint64
	for _, entry := range entries {
		path := filepath.Join(c.appsDir, entry.Name())
		if !isDir(entry, path) {
			continue
		}
		size, mtime, err := c.cachedSize(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return models.AppsStorage{}, ctx.Err()
			}
			c.logger.Warn("Skipping app", "app", entry.Name(), "error", err)
			continue
		}
		apps = append(apps, models.AppStorageEntry{
			Name:  entry.Name(),
			Size:  size,
			MTime: unixSeconds(mtime),
		})
		total += size
	}

	sort.Slice(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	for i := range apps {
		apps[i].Percent = percentOf(apps[i].Size, total)
	}

	return models.AppsStorage{Total: total, Apps: apps}, nil
}

// ClearCache drops every cached directory measurement.
func (c *Collector) ClearCache() {
	c.cache.Clear()
	c.logger.Info("Size cache cleared")
}

func (c *Collector) cachedSize(ctx context.Context, path string) (uint64, time.Time, error) {
	if entry, ok := c.cache.Get(path); ok {
		return entry.Size, entry.MTime, nil
	}

	size, mtime, err := DirSize(ctx, path)
	if err != nil {
		return 0, time.Time{}, err
	}
	c.cache.Set(path, size, mtime)
	return size, mtime, nil
}

// isDir reports whether entry is a directory, following a symlink to one.
func isDir(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}

// percentOf returns part/whole as a percentage rounded to two decimals.
func percentOf(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
