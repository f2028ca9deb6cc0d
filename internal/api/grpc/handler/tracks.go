package handler

import (
	"context"
	"time"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/service"
)

// TrackService defines the track lifecycle operations.
type TrackService interface {
	Search(ctx context.Context, number string) (service.TrackView, error)
	Claim(ctx context.Context, actor model.User, number, personalCode string) (service.TrackView, error)
	ListOwned(ctx context.Context, actor model.User, personalCode string, archived bool) ([]service.TrackView, error)
	Archive(ctx context.Context, actor model.User, number string) error
	Unarchive(ctx context.Context, actor model.User, number string) error
	UpsertAdminRecord(ctx context.Context, actor model.User, number, status string, departure time.Time) (model.Track, error)
	UpdateStatus(ctx context.Context, actor model.User, number, status string) (service.StatusChange, error)
	Delete(ctx context.Context, actor model.User, number string) error
	BatchUpdateStatus(ctx context.Context, actor model.User, date, status string) (service.BatchResult, error)
	BulkUpload(ctx context.Context, actor model.User, params service.UploadParams) (service.UploadReport, error)
	DownloadManifest(ctx context.Context, actor model.User, key string) (service.Manifest, error)
	Calendar(ctx context.Context, actor model.User) ([]service.CalendarDay, error)
	ScanValidate(ctx context.Context, actor model.User, raw string) (service.ScanReport, error)
	ScanDeliver(ctx context.Context, actor model.User, raw string) (service.ScanOutcome, error)
	ScanDelete(ctx context.Context, actor model.User, raw string) (service.ScanOutcome, error)
}

// Tracks handles gRPC endpoints for parcel tracks.
type Tracks struct {
	trackService   TrackService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ TracksServer = (*Tracks)(nil)

// NewTracks creates a new Tracks handler.
func NewTracks(trackService TrackService, contextManager model.ContextManager, logger *logger.Logger) *Tracks {
	return &Tracks{
		trackService:   trackService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Search looks a track up by number without authentication.
func (h *Tracks) Search(ctx context.Context, req *TrackNumberRequest) (*TrackMessage, error) {
	view, err := h.trackService.Search(ctx, req.TrackNumber)
	if err != nil {
		h.logger.Debug("Tracks handler: search failed",
			"track_number", req.TrackNumber,
			"error", err.Error())
		return nil, handleError(err)
	}

	msg := toTrackView(view)
	return &msg, nil
}

// Claim binds a track to the caller's personal code.
func (h *Tracks) Claim(ctx context.Context, req *ClaimRequest) (*TrackMessage, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	view, err := h.trackService.Claim(ctx, user, req.TrackNumber, req.PersonalCode)
	if err != nil {
		h.logger.Error("Tracks handler: claim failed",
			"track_number", req.TrackNumber,
			"user_id", user.ID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Tracks handler: track claimed",
		"track_number", req.TrackNumber,
		"personal_code", req.PersonalCode)

	msg := toTrackView(view)
	return &msg, nil
}

func (h *Tracks) ListOwned(ctx context.Context, req *ListOwnedRequest) (*TrackListResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	views, err := h.trackService.ListOwned(ctx, user, req.PersonalCode, req.Archived)
	if err != nil {
		h.logger.Error("Tracks handler: list failed",
			"personal_code", req.PersonalCode,
			"error", err.Error())
		return nil, handleError(err)
	}

	out := make([]TrackMessage, 0, len(views))
	for _, v := range views {
		out = append(out, toTrackView(v))
	}
	return &TrackListResponse{Tracks: out}, nil
}

func (h *Tracks) Archive(ctx context.Context, req *TrackNumberRequest) (*StatusResponse, error) {
	return h.command(ctx, "archive", req.TrackNumber, "track archived", h.trackService.Archive)
}

func (h *Tracks) Unarchive(ctx context.Context, req *TrackNumberRequest) (*StatusResponse, error) {
	return h.command(ctx, "unarchive", req.TrackNumber, "track restored", h.trackService.Unarchive)
}

func (h *Tracks) Delete(ctx context.Context, req *TrackNumberRequest) (*StatusResponse, error) {
	return h.command(ctx, "delete", req.TrackNumber, "track deleted", h.trackService.Delete)
}

func (h *Tracks) command(
	ctx context.Context,
	op, number, message string,
	fn func(context.Context, model.User, string) error,
) (*StatusResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := fn(ctx, user, number); err != nil {
		h.logger.Error("Tracks handler: "+op+" failed",
			"track_number", number,
			"user_id", user.ID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Tracks handler: "+op+" completed",
		"track_number", number,
		"user_id", user.ID)

	return &StatusResponse{Success: true, Message: message}, nil
}

// UpsertRecord creates or replaces the admin record of a track.
func (h *Tracks) UpsertRecord(ctx context.Context, req *UpsertRecordRequest) (*TrackMessage, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	departure, err := service.ParseDate(req.DepartureDate)
	if err != nil {
		return nil, handleError(err)
	}

	track, err := h.trackService.UpsertAdminRecord(ctx, user, req.TrackNumber, req.Status, departure)
	if err != nil {
		h.logger.Error("Tracks handler: upsert failed",
			"track_number", req.TrackNumber,
			"error", err.Error())
		return nil, handleError(err)
	}

	msg := toTrackMessage(track)
	return &msg, nil
}

func (h *Tracks) UpdateStatus(ctx context.Context, req *UpdateStatusRequest) (*UpdateStatusResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	change, err := h.trackService.UpdateStatus(ctx, user, req.TrackNumber, req.NewStatus)
	if err != nil {
		h.logger.Error("Tracks handler: status update failed",
			"track_number", req.TrackNumber,
			"status", req.NewStatus,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &UpdateStatusResponse{
		Success:     true,
		TrackNumber: change.Number,
		OldStatus:   change.OldStatus,
		NewStatus:   change.NewStatus,
	}, nil
}

// BatchUpdateStatus moves every track of a departure date to a new status.
func (h *Tracks) BatchUpdateStatus(ctx context.Context, req *BatchUpdateStatusRequest) (*BatchUpdateStatusResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	res, err := h.trackService.BatchUpdateStatus(ctx, user, req.DepartureDate, req.NewStatus)
	if err != nil {
		h.logger.Error("Tracks handler: batch status update failed",
			"departure_date", req.DepartureDate,
			"status", req.NewStatus,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Tracks handler: batch status update completed",
		"departure_date", req.DepartureDate,
		"status", res.Status,
		"count", res.Count)

	return &BatchUpdateStatusResponse{
		Success:       true,
		UpdatedCount:  res.Count,
		DepartureDate: res.Departure.Format(service.DateLayout),
		NewStatus:     res.Status,
		Tracks:        res.Numbers,
	}, nil
}

// Upload stores every row of a manifest file.
func (h *Tracks) Upload(ctx context.Context, req *UploadRequest) (*UploadResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Tracks handler: processing upload",
		"filename", req.Filename,
		"size", len(req.Content))

	report, err := h.trackService.BulkUpload(ctx, user, service.UploadParams{
		Filename:  req.Filename,
		Content:   req.Content,
		Departure: req.DepartureDate,
		Status:    req.Status,
	})
	if err != nil {
		h.logger.Error("Tracks handler: upload failed",
			"filename", req.Filename,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Tracks handler: upload completed",
		"filename", req.Filename,
		"count", report.Count,
		"errors", report.TotalErrors)

	return &UploadResponse{
		Success:         true,
		Count:           report.Count,
		ProcessedTracks: report.Processed,
		Errors:          report.Errors,
		TotalErrors:     report.TotalErrors,
		ArchiveKey:      report.ArchiveKey,
	}, nil
}

// DownloadManifest returns a previously uploaded manifest file.
func (h *Tracks) DownloadManifest(ctx context.Context, req *ManifestRequest) (*ManifestResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	m, err := h.trackService.DownloadManifest(ctx, user, req.ArchiveKey)
	if err != nil {
		h.logger.Error("Tracks handler: manifest download failed",
			"archive_key", req.ArchiveKey,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &ManifestResponse{
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Content:     m.Content,
	}, nil
}

// Calendar groups departed tracks by date.
func (h *Tracks) Calendar(ctx context.Context, _ *Empty) (*CalendarResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	days, err := h.trackService.Calendar(ctx, user)
	if err != nil {
		h.logger.Error("Tracks handler: calendar failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		day := CalendarDay{
			Date:   d.Date.Format(service.DateLayout),
			Count:  len(d.Tracks),
			Tracks: make([]CalendarTrack, 0, len(d.Tracks)),
		}
		for _, t := range d.Tracks {
			day.Tracks = append(day.Tracks, CalendarTrack{
				TrackNumber:  t.Number,
				Status:       t.Status,
				PersonalCode: t.PersonalCode,
				IsAssigned:   t.Assigned(),
			})
		}
		out = append(out, day)
	}
	return &CalendarResponse{Days: out}, nil
}

func (h *Tracks) ScanValidate(ctx context.Context, req *ScanRequest) (*ScanValidateResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	report, err := h.trackService.ScanValidate(ctx, user, req.TrackNumbers)
	if err != nil {
		h.logger.Error("Tracks handler: scan validation failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	results := make([]ScanResult, 0, len(report.Results))
	for _, r := range report.Results {
		results = append(results, ScanResult{
			TrackNumber:  r.Number,
			Found:        r.Found,
			Status:       r.Status,
			PersonalCode: r.PersonalCode,
			CanDeliver:   r.CanDeliver,
		})
	}
	return &ScanValidateResponse{
		TotalScanned: report.Scanned,
		Found:        report.Found,
		NotFound:     report.NotFound,
		Results:      results,
	}, nil
}

func (h *Tracks) ScanDeliver(ctx context.Context, req *ScanRequest) (*ScanOutcomeResponse, error) {
	return h.scan(ctx, "deliver", req, h.trackService.ScanDeliver)
}

func (h *Tracks) ScanDelete(ctx context.Context, req *ScanRequest) (*ScanOutcomeResponse, error) {
	return h.scan(ctx, "delete", req, h.trackService.ScanDelete)
}

func (h *Tracks) scan(
	ctx context.Context,
	op string,
	req *ScanRequest,
	fn func(context.Context, model.User, string) (service.ScanOutcome, error),
) (*ScanOutcomeResponse, error) {
	user, err := principal(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	outcome, err := fn(ctx, user, req.TrackNumbers)
	if err != nil {
		h.logger.Error("Tracks handler: scan "+op+" failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Tracks handler: scan "+op+" completed",
		"affected", outcome.Affected,
		"errors", len(outcome.Errors))

	errs := outcome.Errors
	if errs == nil {
		errs = []string{}
	}
	return &ScanOutcomeResponse{Success: true, Affected: outcome.Affected, Errors: errs}, nil
}
