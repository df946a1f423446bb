package ui

import (
	"time"

	"github.com/prabalesh/paneltop/internal/models"
)

// RefreshMsg asks the dashboard to issue the three periodic fetches. The
// poller sends one per tick.
type RefreshMsg time.Time

type statusMsg struct {
	snap models.StatusSnapshot
	err  error
}

type appsMsg struct {
	apps models.AppsStorage
	err  error
}

type logsMsg struct {
	blob models.LogBlob
	err  error
}

type actionMsg struct {
	name string
	res  models.ActionResult
	err  error
}
