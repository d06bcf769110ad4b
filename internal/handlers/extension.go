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

// GetExtension returns the installed agent version and the last update check
// (GET /extension)
func (h *Handler) GetExtension(c *gin.Context) {
	version, present, err := h.marker.Read()
	if err != nil {
		zap.S().Named("handlers").Errorw("failed to read version marker", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to read installed version"})
		return
	}

	resp := v1.Extension{Installed: present}
	if present {
		resp.Version = &version
	}

	last, err := h.updates.Latest(c.Request.Context())
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		zap.S().Named("handlers").Errorw("failed to read last update check", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to read update history"})
		return
	default:
		var check v1.UpdateCheck
		check.FromModel(last)
		resp.LastCheck = &check
	}

	c.JSON(http.StatusOK, resp)
}

// ListUpdateChecks returns the most recent update checks
// (GET /extension/updates)
func (h *Handler) ListUpdateChecks(c *gin.Context) {
	limit := defaultUpdateHistory
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, v1.Error{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	results, err := h.updates.List(c.Request.Context(), limit)
	if err != nil {
		zap.S().Named("handlers").Errorw("failed to list update checks", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to read update history"})
		return
	}

	resp := v1.UpdateCheckList{Checks: make([]v1.UpdateCheck, 0, len(results))}
	for _, r := range results {
		var check v1.UpdateCheck
		check.FromModel(r)
		resp.Checks = append(resp.Checks, check)
	}

	c.JSON(http.StatusOK, resp)
}
