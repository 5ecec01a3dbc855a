// Package repository persists the session marker. Each backend stores the
// marker of one client id and expires it after a TTL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

// ErrNotFound is returned when no (unexpired) marker exists.
var ErrNotFound = errors.New("not found")

// PostgresMarkerStore keeps markers in the session_markers table.
type PostgresMarkerStore struct {
	db       *pgxpool.Pool
	clientID string
	ttl      time.Duration
}

// NewPostgresMarkerStore constructs a PostgresMarkerStore.
func NewPostgresMarkerStore(db *pgxpool.Pool, clientID string, ttl time.Duration) *PostgresMarkerStore {
	return &PostgresMarkerStore{db: db, clientID: clientID, ttl: ttl}
}

// Load returns the marker or ErrNotFound.
func (r *PostgresMarkerStore) Load(ctx context.Context) (model.SessionMarker, error) {
	var m model.SessionMarker
	err := r.db.QueryRow(ctx,
		`SELECT token, user_data
		 FROM session_markers
		 WHERE client_id = $1 AND expires_at > now()`,
		r.clientID,
	).Scan(&m.Token, &m.UserData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SessionMarker{}, ErrNotFound
		}
		return model.SessionMarker{}, fmt.Errorf("load session marker: %w", err)
	}
	return m, nil
}

// Save upserts the marker.
func (r *PostgresMarkerStore) Save(ctx context.Context, m model.SessionMarker) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO session_markers (client_id, token, user_data, expires_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (client_id) DO UPDATE
		 SET token = EXCLUDED.token,
		     user_data = EXCLUDED.user_data,
		     expires_at = EXCLUDED.expires_at,
		     updated_at = EXCLUDED.updated_at`,
		r.clientID, m.Token, m.UserData, now.Add(r.ttl), now,
	)
	if err != nil {
		return fmt.Errorf("save session marker: %w", err)
	}
	return nil
}

// Clear deletes the marker. Clearing a missing marker is not an error.
func (r *PostgresMarkerStore) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM session_markers WHERE client_id = $1`, r.clientID); err != nil {
		return fmt.Errorf("clear session marker: %w", err)
	}
	return nil
}
