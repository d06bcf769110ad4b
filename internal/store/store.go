package store

import (
	"context"
	"database/sql"

	"github.com/tupyy/fleet-agent/internal/models"
)

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	sessions *SessionStore
	updates  *UpdateStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		sessions: NewSessionStore(db),
		updates:  NewUpdateStore(db),
	}
}

func (s *Store) Sessions() *SessionStore {
	return s.sessions
}

func (s *Store) Updates() *UpdateStore {
	return s.updates
}

// SaveSession records the latest status of a session.
func (s *Store) SaveSession(ctx context.Context, status models.SessionStatus) error {
	return s.sessions.Save(ctx, status)
}

// SaveUpdate appends an update check to the history.
func (s *Store) SaveUpdate(ctx context.Context, result models.UpdateResult) error {
	return s.updates.Add(ctx, result)
}

func (s *Store) Close() error {
	return s.db.Close()
}
