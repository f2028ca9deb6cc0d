// Package timeline derives a parcel's status history from its current status
// and departure date.
package timeline

import (
	"time"

	"github.com/dtroode/deltacargo-server/internal/model"
)

// Stage labels in pipeline order.
const (
	StageRegistered = "Registered by client"
	StageDeparted   = "Departed origin warehouse"
	StageInTransit  = "In transit warehouse"
	StageRegionalA  = "Arrived at regional warehouse A"
	StageRegionalB  = "Arrived at regional warehouse B"
	StageDelivered  = "Delivered to client"
)

// DateLayout formats completed stage dates.
const DateLayout = "02.01.2006 15:04"

// Placeholder is shown instead of a date for stages not yet reached.
const Placeholder = "no data"

// Stage is one step of the delivery pipeline.
type Stage struct {
	Label string
	// OffsetDays is counted from the departure date. The first two stages
	// are dated by creation time and the exact departure date instead.
	OffsetDays int
}

var stages = [...]Stage{
	{Label: StageRegistered, OffsetDays: 0},
	{Label: StageDeparted, OffsetDays: 0},
	{Label: StageInTransit, OffsetDays: 5},
	{Label: StageRegionalA, OffsetDays: 10},
	{Label: StageRegionalB, OffsetDays: 10},
	{Label: StageDelivered, OffsetDays: 15},
}

// Stages returns the vocabulary in order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages[:])
	return out
}

// Lookup returns the index of status in the vocabulary. Unknown statuses
// report index 0 and known=false.
func Lookup(status string) (index int, known bool) {
	for i, s := range stages {
		if s.Label == status {
			return i, true
		}
	}
	return 0, false
}

// IsStatus reports whether status belongs to the vocabulary.
func IsStatus(status string) bool {
	_, known := Lookup(status)
	return known
}

// Deliverable reports whether a parcel with status is waiting at a regional
// warehouse and can be handed to the client.
func Deliverable(status string) bool {
	return status == StageRegionalA || status == StageRegionalB
}

// Event is one entry of a track's timeline.
type Event struct {
	Stage     string
	Date      string
	At        time.Time
	Completed bool
}

// Timeline is the derived history of a track. Unknown is set when the
// track's status is not part of the vocabulary and was treated as stage 0.
type Timeline struct {
	Events []Event
	Unknown bool
}

// Build derives the timeline of track. now anchors the computation when the
// track has no departure date or creation time.
func Build(track model.Track, now time.Time) Timeline {
	current, known := 0, true
	if track.Status != "" {
		current, known = Lookup(track.Status)
	}

	today := midnight(now)
	base := today
	if track.DepartureDate != nil {
		base = midnight(*track.DepartureDate)
	}

	events := make([]Event, len(stages))
	for i, s := range stages {
		ev := Event{Stage: s.Label, Date: Placeholder, Completed: i <= current}
		if ev.Completed {
			switch i {
			case 0:
				ev.At = today
				if !track.CreatedAt.IsZero() {
					ev.At = track.CreatedAt
				}
			case 1:
				ev.At = base
			default:
				ev.At = base.AddDate(0, 0, s.OffsetDays)
			}
			ev.Date = ev.At.Format(DateLayout)
		}
		events[i] = ev
	}

	return Timeline{Events: events, Unknown: !known}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
