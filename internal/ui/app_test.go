package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prabalesh/paneltop/internal/models"
)

type fakeFetcher struct {
	mu        sync.Mutex
	apps      []models.AppStorageEntry
	statusErr error
	restarts  int
	clears    int
}

func (f *fakeFetcher) Status(ctx context.Context) (models.StatusSnapshot, error) {
	if f.statusErr != nil {
		return models.StatusSnapshot{}, f.statusErr
	}
	return models.StatusSnapshot{
		CPU:     12.5,
		RAM:     48,
		Storage: models.StorageUsage{Used: 1048576, Total: 10 * 1048576, Percent: 10},
		Uptime:  "3d 4h 12m",
	}, nil
}

func (f *fakeFetcher) AppsStorage(ctx context.Context) (models.AppsStorage, error) {
	return models.AppsStorage{Apps: f.apps}, nil
}

func (f *fakeFetcher) Logs(ctx context.Context) (models.LogBlob, error) {
	return models.LogBlob{Logs: "booted\nserving"}, nil
}

func (f *fakeFetcher) Restart(ctx context.Context) (models.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts++
	return models.ActionResult{OK: true, Message: "Restarted"}, nil
}

func (f *fakeFetcher) ClearCache(ctx context.Context) (models.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	return models.ActionResult{}, errors.New("connection refused")
}

type fakeScheduler struct{ paused bool }

func (s *fakeScheduler) Pause()       { s.paused = true }
func (s *fakeScheduler) Resume()      { s.paused = false }
func (s *fakeScheduler) Paused() bool { return s.paused }

// drain runs cmd and feeds every resulting message back into the app,
// expanding batches.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(t, a, c)
		}
		return
	}
	_, next := a.Update(msg)
	drain(t, a, next)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newSizedApp(f Fetcher) *App {
	a := NewApp(f, WithSource("http://panel.local"))
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a
}

func TestRefreshPopulatesDashboard(t *testing.T) {
	f := &fakeFetcher{apps: twoApps()}
	a := newSizedApp(f)

	_, cmd := a.Update(RefreshMsg{})
	drain(t, a, cmd)

	if a.cpuText != "12.5" || a.ramText != "48" {
		t.Errorf("cpu/ram = %q/%q", a.cpuText, a.ramText)
	}
	if a.storageText != "10%" || a.storageDetail != "1.0 MB / 10.0 MB" {
		t.Errorf("storage = %q %q", a.storageText, a.storageDetail)
	}
	if a.uptimeText != "3d 4h 12m" {
		t.Errorf("uptime = %q", a.uptimeText)
	}
	if len(a.appRows) != 2 || len(a.chart.Datasets[0].Data) != 2 {
		t.Errorf("rows %d, dataset %d; want 2 and 2", len(a.appRows), len(a.chart.Datasets[0].Data))
	}
	if !a.haveLogs {
		t.Error("logs not applied")
	}
	if !strings.Contains(a.View(), "12.5%") {
		t.Error("overview does not show cpu")
	}
}

func TestSecondRefreshReusesChart(t *testing.T) {
	f := &fakeFetcher{apps: twoApps()}
	a := newSizedApp(f)

	_, cmd := a.Update(RefreshMsg{})
	drain(t, a, cmd)
	first := a.chart

	_, cmd = a.Update(RefreshMsg{})
	drain(t, a, cmd)

	if a.chart != first {
		t.Fatal("second refresh replaced the chart instance")
	}
	if first.Revision() != 1 {
		t.Errorf("revision = %d, want 1", first.Revision())
	}
}

func TestInjectedChartIsUsed(t *testing.T) {
	chart := NewPieChart(nil, nil)
	a := NewApp(&fakeFetcher{apps: twoApps()}, WithChart(chart))

	a.Update(appsMsg{apps: models.AppsStorage{Apps: twoApps()}})

	if a.chart != chart || len(chart.Labels) != 2 {
		t.Errorf("injected chart not updated: %+v", chart)
	}
}

func TestFailedStatusKeepsPreviousValues(t *testing.T) {
	f := &fakeFetcher{}
	a := newSizedApp(f)
	a.Update(statusMsg{snap: models.StatusSnapshot{CPU: 3, Uptime: "1m"}})

	a.Update(statusMsg{err: errors.New("dial tcp: refused")})

	if a.cpuText != "3" || a.uptimeText != "1m" {
		t.Errorf("previous values lost: %q %q", a.cpuText, a.uptimeText)
	}
	if !strings.Contains(a.renderStatusLine(), "status: dial tcp: refused") {
		t.Errorf("status line = %q", a.renderStatusLine())
	}

	a.Update(statusMsg{snap: models.StatusSnapshot{CPU: 4}})
	if _, ok := a.errs[sourceStatus]; ok {
		t.Error("error not cleared by a successful fetch")
	}
}

func TestActionAlertBlocksKeys(t *testing.T) {
	f := &fakeFetcher{}
	a := newSizedApp(f)

	_, cmd := a.Update(keyPress("r"))
	drain(t, a, cmd)

	if f.restarts != 1 {
		t.Fatalf("restarts = %d, want 1", f.restarts)
	}
	if a.alert == nil || a.alert.text != "Restarted" || a.alert.failed {
		t.Fatalf("alert = %+v", a.alert)
	}
	if !strings.Contains(a.View(), "Restarted") {
		t.Error("alert not rendered")
	}

	_, cmd = a.Update(keyPress("r"))
	if cmd != nil {
		t.Error("keys should be ignored while the alert is open")
	}
	_, cmd = a.Update(keyPress("q"))
	if cmd != nil {
		t.Error("q should not quit while the alert is open")
	}

	a.Update(keyPress("enter"))
	if a.alert != nil {
		t.Error("enter did not dismiss the alert")
	}
}

func TestFailedActionShowsErrorAlert(t *testing.T) {
	f := &fakeFetcher{}
	a := newSizedApp(f)

	_, cmd := a.Update(keyPress("c"))
	drain(t, a, cmd)

	if a.alert == nil || !a.alert.failed || !strings.Contains(a.alert.text, "connection refused") {
		t.Fatalf("alert = %+v", a.alert)
	}
}

func TestPauseTogglesScheduler(t *testing.T) {
	s := &fakeScheduler{}
	a := newSizedApp(&fakeFetcher{})
	a.AttachScheduler(s)

	a.Update(keyPress("p"))
	if !s.paused {
		t.Fatal("p did not pause")
	}
	if !strings.Contains(a.renderStatusLine(), "polling paused") {
		t.Errorf("status line = %q", a.renderStatusLine())
	}
	a.Update(keyPress("p"))
	if s.paused {
		t.Fatal("second p did not resume")
	}
}

func TestTabNavigation(t *testing.T) {
	a := newSizedApp(&fakeFetcher{})

	a.Update(keyPress("l"))
	a.Update(keyPress("l"))
	a.Update(keyPress("l"))
	if a.activeTab != tabLogs {
		t.Errorf("activeTab = %d, want %d", a.activeTab, tabLogs)
	}
	a.Update(keyPress("h"))
	if a.activeTab != tabApps {
		t.Errorf("activeTab = %d, want %d", a.activeTab, tabApps)
	}
	if !strings.Contains(a.View(), "Waiting for the first listing") {
		t.Error("apps tab should show the waiting message before data arrives")
	}
}

func TestViewBeforeResize(t *testing.T) {
	if got := NewApp(&fakeFetcher{}).View(); got != "Loading..." {
		t.Errorf("View = %q", got)
	}
}
