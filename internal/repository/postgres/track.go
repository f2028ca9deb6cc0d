package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/deltacargo-server/internal/model"
)

var _ model.TrackStore = (*TrackRepository)(nil)

const trackColumns = `id, track_number, status, departure_date, personal_code, is_archived, created_at, updated_at`

type TrackRepository struct {
	db *Connection
}

func NewTrackRepository(db *Connection) *TrackRepository {
	return &TrackRepository{
		db: db,
	}
}

func scanTrack(row pgx.Row) (model.Track, error) {
	var track model.Track
	err := row.Scan(
		&track.ID, &track.Number, &track.Status, &track.DepartureDate,
		&track.PersonalCode, &track.Archived, &track.CreatedAt, &track.UpdatedAt,
	)
	return track, err
}

func collectTracks(rows pgx.Rows) ([]model.Track, error) {
	defer rows.Close()

	var tracks []model.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

func (r *TrackRepository) GetByNumber(ctx context.Context, number string) (model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE track_number = $1`

	track, err := scanTrack(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Track{}, model.ErrNotFound
		}
		return model.Track{}, wrapErr("failed to get track", err)
	}

	return track, nil
}

func (r *TrackRepository) ListByOwner(ctx context.Context, personalCode string, archived bool) ([]model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks
			  WHERE personal_code = $1 AND is_archived = $2
			  ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, personalCode, archived)
	if err != nil {
		return nil, wrapErr("failed to list tracks", err)
	}
	tracks, err := collectTracks(rows)
	if err != nil {
		return nil, wrapErr("failed to scan tracks", err)
	}

	return tracks, nil
}

func (r *TrackRepository) ListDeparted(ctx context.Context) ([]model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks
			  WHERE departure_date IS NOT NULL
			  ORDER BY departure_date, track_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("failed to list departed tracks", err)
	}
	tracks, err := collectTracks(rows)
	if err != nil {
		return nil, wrapErr("failed to scan tracks", err)
	}

	return tracks, nil
}

func (r *TrackRepository) Insert(ctx context.Context, track model.Track) (model.Track, error) {
	query := `INSERT INTO tracks (id, track_number, status, departure_date, personal_code, is_archived, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			  RETURNING ` + trackColumns

	if track.ID == uuid.Nil {
		track.ID = uuid.New()
	}
	if track.CreatedAt.IsZero() {
		track.CreatedAt = time.Now().UTC()
	}

	saved, err := scanTrack(r.db.QueryRow(ctx, query,
		track.ID, track.Number, track.Status, track.DepartureDate,
		track.PersonalCode, track.Archived, track.CreatedAt,
	))
	if err != nil {
		return model.Track{}, wrapErr("failed to insert track", err)
	}

	return saved, nil
}

// Assign claims an existing track for personalCode in a single conditional
// update. Of two concurrent claimants with different codes only one matches.
func (r *TrackRepository) Assign(ctx context.Context, number, personalCode string) (model.Track, error) {
	query := `UPDATE tracks SET personal_code = $2, updated_at = NOW()
			  WHERE track_number = $1 AND (personal_code IS NULL OR personal_code = $2)
			  RETURNING ` + trackColumns

	track, err := scanTrack(r.db.QueryRow(ctx, query, number, personalCode))
	if err == nil {
		return track, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Track{}, wrapErr("failed to assign track", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tracks WHERE track_number = $1)`, number).Scan(&exists)
	if err != nil {
		return model.Track{}, wrapErr("failed to check track", err)
	}
	if !exists {
		return model.Track{}, model.ErrNotFound
	}

	return model.Track{}, fmt.Errorf("track %s is owned by another client: %w", number, model.ErrConflict)
}

func (r *TrackRepository) Upsert(ctx context.Context, number, status string, departure time.Time) (model.Track, error) {
	query := `INSERT INTO tracks (id, track_number, status, departure_date, is_archived, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
			  ON CONFLICT (track_number) DO UPDATE
			  SET status = EXCLUDED.status,
			      departure_date = EXCLUDED.departure_date,
			      is_archived = FALSE,
			      updated_at = NOW()
			  RETURNING ` + trackColumns

	track, err := scanTrack(r.db.QueryRow(ctx, query, uuid.New(), number, status, departure))
	if err != nil {
		return model.Track{}, wrapErr("failed to upsert track", err)
	}

	return track, nil
}

func (r *TrackRepository) SetStatus(ctx context.Context, number, status string) error {
	return r.db.execOne(ctx, "failed to set track status",
		`UPDATE tracks SET status = $2, updated_at = NOW() WHERE track_number = $1`, number, status)
}

func (r *TrackRepository) SetArchived(ctx context.Context, number string, archived bool) error {
	return r.db.execOne(ctx, "failed to set archived flag",
		`UPDATE tracks SET is_archived = $2, updated_at = NOW() WHERE track_number = $1`, number, archived)
}

func (r *TrackRepository) Delete(ctx context.Context, number string) error {
	return r.db.execOne(ctx, "failed to delete track", `DELETE FROM tracks WHERE track_number = $1`, number)
}

func (r *TrackRepository) SetStatusByDeparture(ctx context.Context, departure time.Time, status string) ([]string, error) {
	query := `UPDATE tracks SET status = $2, updated_at = NOW()
			  WHERE departure_date = $1
			  RETURNING track_number`

	var numbers []string
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, departure, status)
		if err != nil {
			return err
		}
		numbers, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		if len(numbers) == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("no tracks departed on %s: %w", departure.Format(time.DateOnly), model.ErrNotFound)
		}
		return nil, wrapErr("failed to update tracks by departure", err)
	}

	return numbers, nil
}
