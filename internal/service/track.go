package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/timeline"
)

// DateLayout is the wire format of departure dates.
const DateLayout = time.DateOnly

const batchPreview = 10

var trackNumberRe = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// ValidateNumber checks the shape of a carrier track number.
func ValidateNumber(number string) error {
	if !trackNumberRe.MatchString(number) {
		return fmt.Errorf("malformed track number %q: %w", number, model.ErrValidation)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD departure date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, model.ErrValidation)
	}
	return d, nil
}

func validateStatus(status string) error {
	if !timeline.IsStatus(status) {
		return fmt.Errorf("unknown status %q: %w", status, model.ErrValidation)
	}
	return nil
}

// TrackView is a track together with its derived timeline.
type TrackView struct {
	Track    model.Track
	Timeline timeline.Timeline
}

// StatusChange reports a single-track status update.
type StatusChange struct {
	Number    string
	OldStatus string
	NewStatus string
}

// BatchResult reports a status transition applied by departure date.
type BatchResult struct {
	Departure time.Time
	Status    string
	Count     int
	// Numbers holds at most the first ten affected track numbers.
	Numbers []string
}

// CalendarDay groups the tracks that left on one date.
type CalendarDay struct {
	Date   time.Time
	Tracks []model.Track
}

// ScanResult describes one scanned number.
type ScanResult struct {
	Number       string
	Found        bool
	Status       string
	PersonalCode string
	CanDeliver   bool
}

// ScanReport is the outcome of validating a scanned batch.
type ScanReport struct {
	Scanned  int
	Found    int
	NotFound int
	Results  []ScanResult
}

// ScanOutcome is the outcome of a deliver or delete scan.
type ScanOutcome struct {
	Affected int
	Errors   []string
}

// Tracks implements the track lifecycle: claiming, admin records, archival,
// status transitions and the warehouse scanner.
type Tracks struct {
	trackStore model.TrackStore
	storage    model.Storage
	audit      *auditor
	logger     *logger.Logger
	now        func() time.Time
}

func NewTracks(
	trackStore model.TrackStore,
	auditStore model.AuditStore,
	storage model.Storage,
	logger *logger.Logger,
) *Tracks {
	return &Tracks{
		trackStore: trackStore,
		storage:    storage,
		audit:      newAuditor(auditStore, logger),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Tracks) view(track model.Track) TrackView {
	tl := timeline.Build(track, s.now())
	if tl.Unknown {
		s.logger.Warn("Tracks service: status outside vocabulary, shown as first stage",
			"track_number", track.Number,
			"status", track.Status)
	}
	return TrackView{Track: track, Timeline: tl}
}

func (s *Tracks) views(tracks []model.Track) []TrackView {
	out := make([]TrackView, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, s.view(t))
	}
	return out
}

// Search looks a track up by number. It requires no principal.
func (s *Tracks) Search(ctx context.Context, number string) (TrackView, error) {
	number = strings.TrimSpace(number)
	if err := ValidateNumber(number); err != nil {
		return TrackView{}, err
	}

	track, err := s.trackStore.GetByNumber(ctx, number)
	if err != nil {
		return TrackView{}, fmt.Errorf("failed to get track: %w", err)
	}
	return s.view(track), nil
}

// Claim associates number with personalCode. Unknown numbers are created at
// the first stage; a number owned by another code is a conflict.
func (s *Tracks) Claim(ctx context.Context, actor model.User, number, personalCode string) (TrackView, error) {
	number = strings.TrimSpace(number)
	personalCode = strings.TrimSpace(personalCode)

	if err := Authorize(actor, model.AnyRole); err != nil {
		return TrackView{}, err
	}
	if err := CheckOwnership(actor, personalCode); err != nil {
		return TrackView{}, fmt.Errorf("tracks can only be claimed for your own code: %w", err)
	}
	if personalCode == "" {
		return TrackView{}, fmt.Errorf("personal code is required: %w", model.ErrValidation)
	}
	if err := ValidateNumber(number); err != nil {
		return TrackView{}, err
	}

	s.logger.Debug("Tracks service: claiming track",
		"track_number", number,
		"personal_code", personalCode)

	track, err := s.trackStore.Assign(ctx, number, personalCode)
	switch {
	case err == nil:
		s.logger.Info("Tracks service: track assigned",
			"track_number", number,
			"personal_code", personalCode)
		return s.view(track), nil
	case errors.Is(err, model.ErrConflict):
		s.logger.Info("Tracks service: track already claimed by another code",
			"track_number", number,
			"personal_code", personalCode)
		return TrackView{}, fmt.Errorf("track %s is already assigned: %w", number, model.ErrConflict)
	case !errors.Is(err, model.ErrNotFound):
		s.logger.Error("Tracks service: failed to assign track",
			"track_number", number,
			"error", err.Error())
		return TrackView{}, fmt.Errorf("failed to assign track: %w", err)
	}

	code := personalCode
	track, err = s.trackStore.Insert(ctx, model.Track{
		Number:       number,
		Status:       timeline.StageRegistered,
		PersonalCode: &code,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			s.logger.Info("Tracks service: lost claim race",
				"track_number", number,
				"personal_code", personalCode)
			return TrackView{}, fmt.Errorf("track %s is already assigned: %w", number, model.ErrConflict)
		}
		s.logger.Error("Tracks service: failed to register track",
			"track_number", number,
			"error", err.Error())
		return TrackView{}, fmt.Errorf("failed to register track: %w", err)
	}

	s.logger.Info("Tracks service: track registered by client",
		"track_number", number,
		"personal_code", personalCode)

	return s.view(track), nil
}

// UpsertAdminRecord creates or overwrites a track's status and departure
// date. The track is unarchived; its owner is kept.
func (s *Tracks) UpsertAdminRecord(ctx context.Context, actor model.User, number, status string, departure time.Time) (model.Track, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return model.Track{}, err
	}
	return s.upsert(ctx, strings.TrimSpace(number), status, departure)
}

func (s *Tracks) upsert(ctx context.Context, number, status string, departure time.Time) (model.Track, error) {
	if err := ValidateNumber(number); err != nil {
		return model.Track{}, err
	}
	if err := validateStatus(status); err != nil {
		return model.Track{}, err
	}

	track, err := s.trackStore.Upsert(ctx, number, status, departure)
	if err != nil {
		return model.Track{}, fmt.Errorf("failed to upsert track: %w", err)
	}
	return track, nil
}

func (s *Tracks) Archive(ctx context.Context, actor model.User, number string) error {
	return s.setArchived(ctx, actor, number, true)
}

func (s *Tracks) Unarchive(ctx context.Context, actor model.User, number string) error {
	return s.setArchived(ctx, actor, number, false)
}

func (s *Tracks) setArchived(ctx context.Context, actor model.User, number string, archived bool) error {
	track, err := s.trackStore.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return fmt.Errorf("failed to get track: %w", err)
	}
	if err := CheckOwnership(actor, track.Owner()); err != nil {
		return err
	}

	if err := s.trackStore.SetArchived(ctx, track.Number, archived); err != nil {
		s.logger.Error("Tracks service: failed to set archived flag",
			"track_number", track.Number,
			"error", err.Error())
		return fmt.Errorf("failed to set archived flag: %w", err)
	}

	s.logger.Info("Tracks service: archived flag changed",
		"track_number", track.Number,
		"archived", archived,
		"actor", actor.Email)

	return nil
}

// Delete permanently removes a track.
func (s *Tracks) Delete(ctx context.Context, actor model.User, number string) error {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return err
	}

	number = strings.TrimSpace(number)
	if err := s.trackStore.Delete(ctx, number); err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	s.audit.record(ctx, model.AuditDeleteTrack, actor.Email, model.AuditTargetTrack, number, "")

	s.logger.Info("Tracks service: track deleted",
		"track_number", number,
		"actor", actor.Email)

	return nil
}

func (s *Tracks) UpdateStatus(ctx context.Context, actor model.User, number, status string) (StatusChange, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return StatusChange{}, err
	}
	if err := validateStatus(status); err != nil {
		return StatusChange{}, err
	}

	track, err := s.trackStore.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return StatusChange{}, fmt.Errorf("failed to get track: %w", err)
	}
	if err := s.trackStore.SetStatus(ctx, track.Number, status); err != nil {
		return StatusChange{}, fmt.Errorf("failed to set status: %w", err)
	}

	change := StatusChange{Number: track.Number, OldStatus: track.Status, NewStatus: status}
	s.audit.record(ctx, model.AuditUpdateStatus, actor.Email, model.AuditTargetTrack, track.Number,
		fmt.Sprintf("%s -> %s", change.OldStatus, change.NewStatus))

	return change, nil
}

// BatchUpdateStatus moves every track that departed on date to status as one
// unit. No matching track is ErrNotFound.
func (s *Tracks) BatchUpdateStatus(ctx context.Context, actor model.User, date, status string) (BatchResult, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return BatchResult{}, err
	}
	departure, err := ParseDate(date)
	if err != nil {
		return BatchResult{}, err
	}
	if err := validateStatus(status); err != nil {
		return BatchResult{}, err
	}

	numbers, err := s.trackStore.SetStatusByDeparture(ctx, departure, status)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Error("Tracks service: batch status update failed",
				"departure_date", date,
				"error", err.Error())
		}
		return BatchResult{}, fmt.Errorf("failed to update tracks by departure date: %w", err)
	}

	s.audit.record(ctx, model.AuditBatchUpdateStatus, actor.Email, model.AuditTargetTrack, date,
		fmt.Sprintf("updated %d tracks to %q", len(numbers), status))

	s.logger.Info("Tracks service: batch status update applied",
		"departure_date", date,
		"status", status,
		"count", len(numbers))

	return BatchResult{
		Departure: departure,
		Status:    status,
		Count:     len(numbers),
		Numbers:   numbers[:min(len(numbers), batchPreview)],
	}, nil
}

// ListOwned returns the active or archived tracks of personalCode.
func (s *Tracks) ListOwned(ctx context.Context, actor model.User, personalCode string, archived bool) ([]TrackView, error) {
	if err := CheckOwnership(actor, personalCode); err != nil {
		return nil, err
	}

	tracks, err := s.trackStore.ListByOwner(ctx, personalCode, archived)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return s.views(tracks), nil
}

// Calendar groups tracks with a departure date by that date, earliest first.
func (s *Tracks) Calendar(ctx context.Context, actor model.User) ([]CalendarDay, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return nil, err
	}

	tracks, err := s.trackStore.ListDeparted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departed tracks: %w", err)
	}

	var days []CalendarDay
	for _, t := range tracks {
		if t.DepartureDate == nil {
			continue
		}
		d := *t.DepartureDate
		if n := len(days); n > 0 && days[n-1].Date.Equal(d) {
			days[n-1].Tracks = append(days[n-1].Tracks, t)
			continue
		}
		days = append(days, CalendarDay{Date: d, Tracks: []model.Track{t}})
	}
	return days, nil
}

// ParseScanList splits a comma-separated scanner batch into upper-cased
// numbers, dropping blanks.
func ParseScanList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if n := strings.ToUpper(strings.TrimSpace(part)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (s *Tracks) ScanValidate(ctx context.Context, actor model.User, raw string) (ScanReport, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return ScanReport{}, err
	}

	numbers := ParseScanList(raw)
	report := ScanReport{Scanned: len(numbers), Results: make([]ScanResult, 0, len(numbers))}
	for _, n := range numbers {
		track, err := s.trackStore.GetByNumber(ctx, n)
		if errors.Is(err, model.ErrNotFound) {
			report.NotFound++
			report.Results = append(report.Results, ScanResult{Number: n})
			continue
		}
		if err != nil {
			return ScanReport{}, fmt.Errorf("failed to get track %s: %w", n, err)
		}
		report.Found++
		report.Results = append(report.Results, ScanResult{
			Number:       track.Number,
			Found:        true,
			Status:       track.Status,
			PersonalCode: track.Owner(),
			CanDeliver:   timeline.Deliverable(track.Status),
		})
	}
	return report, nil
}

// ScanDeliver marks every scanned parcel as handed to the client.
func (s *Tracks) ScanDeliver(ctx context.Context, actor model.User, raw string) (ScanOutcome, error) {
	outcome, err := s.scan(ctx, actor, raw, func(n string) error {
		return s.trackStore.SetStatus(ctx, n, timeline.StageDelivered)
	})
	if err != nil {
		return ScanOutcome{}, err
	}

	s.audit.record(ctx, model.AuditScannerDeliver, actor.Email, model.AuditTargetTrack, "bulk",
		fmt.Sprintf("delivered %d parcels", outcome.Affected))
	return outcome, nil
}

// ScanDelete permanently removes every scanned parcel.
func (s *Tracks) ScanDelete(ctx context.Context, actor model.User, raw string) (ScanOutcome, error) {
	outcome, err := s.scan(ctx, actor, raw, func(n string) error {
		return s.trackStore.Delete(ctx, n)
	})
	if err != nil {
		return ScanOutcome{}, err
	}

	s.audit.record(ctx, model.AuditScannerDelete, actor.Email, model.AuditTargetTrack, "bulk",
		fmt.Sprintf("deleted %d parcels", outcome.Affected))
	return outcome, nil
}

func (s *Tracks) scan(ctx context.Context, actor model.User, raw string, apply func(number string) error) (ScanOutcome, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return ScanOutcome{}, err
	}

	outcome := ScanOutcome{Errors: []string{}}
	for _, n := range ParseScanList(raw) {
		err := apply(n)
		if errors.Is(err, model.ErrNotFound) {
			outcome.Errors = append(outcome.Errors, n+": not found")
			continue
		}
		if err != nil {
			s.logger.Error("Tracks service: scanner action failed",
				"track_number", n,
				"error", err.Error())
			return ScanOutcome{}, fmt.Errorf("failed to process %s: %w", n, err)
		}
		outcome.Affected++
	}
	return outcome, nil
}
