package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tupyy/fleet-agent/internal/models"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("not found")

// SessionStore keeps the latest status of every session, keyed by account index.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save stores or updates the status of a session.
func (s *SessionStore) Save(ctx context.Context, status models.SessionStatus) error {
	_, err := s.db.ExecContext(ctx, queryUpsertSession,
		status.Index,
		status.Username,
		status.ProxyHost,
		string(status.State),
		string(status.Connectivity),
		nullTime(status.LastLoginAt),
		nullTime(status.LastCheckAt),
		status.LastError,
		status.RunID,
	)
	return err
}

// List returns the status of every known session ordered by index.
func (s *SessionStore) List(ctx context.Context) ([]models.SessionStatus, error) {
	rows, err := s.db.QueryContext(ctx, queryListSessions)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	statuses := []models.SessionStatus{}
	for rows.Next() {
		status, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// Get returns the status of the session at index.
func (s *SessionStore) Get(ctx context.Context, index int) (models.SessionStatus, error) {
	status, err := scanSession(s.db.QueryRowContext(ctx, queryGetSession, index))
	if errors.Is(err, sql.ErrNoRows) {
		return models.SessionStatus{}, ErrNotFound
	}
	return status, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (models.SessionStatus, error) {
	var (
		st                   models.SessionStatus
		state, connectivity  string
		lastLogin, lastCheck sql.NullTime
	)
	err := row.Scan(&st.Index, &st.Username, &st.ProxyHost, &state, &connectivity,
		&lastLogin, &lastCheck, &st.LastError, &st.RunID, &st.UpdatedAt)
	if err != nil {
		return models.SessionStatus{}, err
	}

	st.State = models.SessionState(state)
	st.Connectivity = models.ConnectivityStatus(connectivity)
	st.LastLoginAt = lastLogin.Time
	st.LastCheckAt = lastCheck.Time
	return st, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
