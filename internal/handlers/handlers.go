package handlers

import (
	"context"

	"github.com/tupyy/fleet-agent/internal/models"
)

const defaultUpdateHistory = 20

type SessionReader interface {
	List(ctx context.Context) ([]models.SessionStatus, error)
	Get(ctx context.Context, index int) (models.SessionStatus, error)
}

type UpdateReader interface {
	Latest(ctx context.Context) (models.UpdateResult, error)
	List(ctx context.Context, limit int) ([]models.UpdateResult, error)
}

type VersionReader interface {
	Read() (string, bool, error)
}

// Handler serves the status API from the status store and the installed version marker.
type Handler struct {
	sessions SessionReader
	updates  UpdateReader
	marker   VersionReader
}

func New(sessions SessionReader, updates UpdateReader, marker VersionReader) *Handler {
	return &Handler{
		sessions: sessions,
		updates:  updates,
		marker:   marker,
	}
}
