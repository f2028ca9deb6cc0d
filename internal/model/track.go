package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TrackStore defines persistence operations for tracks.
type TrackStore interface {
	GetByNumber(ctx context.Context, number string) (Track, error)
	ListByOwner(ctx context.Context, personalCode string, archived bool) ([]Track, error)
	ListDeparted(ctx context.Context) ([]Track, error)
	// Insert stores a new track. A duplicate number yields ErrConflict.
	Insert(ctx context.Context, track Track) (Track, error)
	// Assign sets the owner of an unowned track, or is a no-op when the track
	// is already owned by personalCode. A different owner yields ErrConflict.
	Assign(ctx context.Context, number, personalCode string) (Track, error)
	// Upsert creates or overwrites status and departure date and clears the
	// archived flag. The owner is left untouched.
	Upsert(ctx context.Context, number, status string, departure time.Time) (Track, error)
	SetStatus(ctx context.Context, number, status string) error
	SetArchived(ctx context.Context, number string, archived bool) error
	Delete(ctx context.Context, number string) error
	// SetStatusByDeparture moves every track with the given departure date to
	// status in one statement and returns the affected numbers.
	SetStatusByDeparture(ctx context.Context, departure time.Time, status string) ([]string, error)
}

// Track is a parcel identified by a carrier-issued number.
type Track struct {
	ID            uuid.UUID
	Number        string
	Status        string
	DepartureDate *time.Time
	PersonalCode  *string
	Archived      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Owner returns the owning personal code, or "" for an unclaimed track.
func (t Track) Owner() string {
	if t.PersonalCode == nil {
		return ""
	}
	return *t.PersonalCode
}

// Assigned reports whether the track has been claimed.
func (t Track) Assigned() bool {
	return t.PersonalCode != nil
}
