package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/tupyy/fleet-agent/api/v1"
	"github.com/tupyy/fleet-agent/internal/store"
)

// ListSessions returns the status of every session
// (GET /sessions)
func (h *Handler) ListSessions(c *gin.Context) {
	statuses, err := h.sessions.List(c.Request.Context())
	if err != nil {
		zap.S().Named("handlers").Errorw("failed to list sessions", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to list sessions"})
		return
	}

	resp := v1.SessionList{Sessions: make([]v1.Session, 0, len(statuses))}
	for _, st := range statuses {
		var s v1.Session
		s.FromModel(st)
		resp.Sessions = append(resp.Sessions, s)
	}

	c.JSON(http.StatusOK, resp)
}

// GetSession returns the status of one session
// (GET /sessions/:index)
func (h *Handler) GetSession(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "index must be a non-negative integer"})
		return
	}

	st, err := h.sessions.Get(c.Request.Context(), index)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, v1.Error{Error: "session not found"})
		return
	case err != nil:
		zap.S().Named("handlers").Errorw("failed to get session", "index", index, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to get session"})
		return
	}

	var resp v1.Session
	resp.FromModel(st)
	c.JSON(http.StatusOK, resp)
}
