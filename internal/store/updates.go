package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tupyy/fleet-agent/internal/models"
)

// UpdateStore is the append-only history of update gate checks.
type UpdateStore struct {
	db *sql.DB
}

func NewUpdateStore(db *sql.DB) *UpdateStore {
	return &UpdateStore{db: db}
}

func (s *UpdateStore) Add(ctx context.Context, r models.UpdateResult) error {
	_, err := s.db.ExecContext(ctx, queryInsertUpdate,
		r.CheckedAt, r.InstalledVersion, r.LatestVersion, string(r.Decision), r.Installed, r.Digest, r.Error)
	return err
}

// Latest returns the most recent check, ErrNotFound if there is none.
func (s *UpdateStore) Latest(ctx context.Context) (models.UpdateResult, error) {
	r, err := scanUpdate(s.db.QueryRowContext(ctx, queryLatestUpdate))
	if errors.Is(err, sql.ErrNoRows) {
		return models.UpdateResult{}, ErrNotFound
	}
	return r, err
}

// List returns the last limit checks, most recent first.
func (s *UpdateStore) List(ctx context.Context, limit int) ([]models.UpdateResult, error) {
	rows, err := s.db.QueryContext(ctx, queryListUpdates, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := []models.UpdateResult{}
	for rows.Next() {
		r, err := scanUpdate(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanUpdate(row scanner) (models.UpdateResult, error) {
	var (
		r        models.UpdateResult
		decision string
	)
	if err := row.Scan(&r.CheckedAt, &r.InstalledVersion, &r.LatestVersion, &decision, &r.Installed, &r.Digest, &r.Error); err != nil {
		return models.UpdateResult{}, err
	}
	r.Decision = models.UpdateDecision(decision)
	return r, nil
}
