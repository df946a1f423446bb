package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prabalesh/paneltop/internal/actions"
	"github.com/prabalesh/paneltop/internal/models"
)

// maxLogLines caps the ?lines= query on /api/logs.
const maxLogLines = 1000

func (s *Server) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "paneltop status server. See /api/status, /api/apps-storage and /api/logs.")
}

func (s *Server) handleStatus(c *gin.Context) {
	snap, err := s.source.Status(c.Request.Context())
	if err != nil {
		s.logger.Error("Status collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleAppsStorage(c *gin.Context) {
	apps, err := s.source.AppsStorage(c.Request.Context())
	if err != nil {
		s.logger.Error("Apps storage collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) handleLogs(c *gin.Context) {
	lines := 0
	if raw := c.Query("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lines must be a positive integer"})
			return
		}
		lines = min(n, maxLogLines)
	}

	logs, err := s.source.Logs(lines)
	if err != nil {
		s.logger.Error("Reading logs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.LogBlob{Logs: logs})
}

func (s *Server) handleRestart(c *gin.Context) {
	if s.restarter == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": actions.ErrNoCommand.Error()})
		return
	}
	if err := s.restarter.Restart(c.Request.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, actions.ErrNoCommand) {
			status = http.StatusNotImplemented
		}
		s.logger.Error("Restart failed", "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.ActionResult{OK: true, Message: "Restarted"})
}

func (s *Server) handleClearCache(c *gin.Context) {
	s.source.ClearCache()
	c.JSON(http.StatusOK, models.ActionResult{OK: true, Message: "Cache cleared"})
}
