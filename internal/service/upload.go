package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/upload"
)

const (
	uploadProcessedPreview = 10
	uploadErrorPreview     = 5

	manifestPrefix  = "uploads/"
	maxManifestSize = 32 << 20
)

// UploadParams is an admin manifest upload. Every row receives Status and
// the departure date given as YYYY-MM-DD.
type UploadParams struct {
	Filename  string
	Content   []byte
	Departure string
	Status    string
}

// UploadReport is the partial-success result of a bulk upload.
type UploadReport struct {
	Count int
	// Processed holds at most the first ten stored numbers.
	Processed []string
	// Errors holds at most the first five row errors; TotalErrors counts all.
	Errors      []string
	TotalErrors int
	ArchiveKey  string
}

// Manifest is a raw upload read back from the archive.
type Manifest struct {
	Filename    string
	ContentType string
	Content     []byte
}

// BulkUpload stores every row of a manifest. Rows are independent: a bad row
// is reported and the rest are still written.
func (s *Tracks) BulkUpload(ctx context.Context, actor model.User, params UploadParams) (UploadReport, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return UploadReport{}, err
	}
	departure, err := ParseDate(params.Departure)
	if err != nil {
		return UploadReport{}, err
	}
	if err := validateStatus(params.Status); err != nil {
		return UploadReport{}, err
	}

	rows, err := upload.Parse(params.Filename, params.Content)
	if err != nil {
		s.logger.Info("Tracks service: manifest rejected",
			"filename", params.Filename,
			"error", err.Error())
		return UploadReport{}, err
	}

	report := UploadReport{
		Processed:  []string{},
		Errors:     []string{},
		ArchiveKey: s.archiveManifest(ctx, params),
	}

	for _, number := range rows {
		if _, err := s.upsert(ctx, number, params.Status, departure); err != nil {
			report.TotalErrors++
			if len(report.Errors) < uploadErrorPreview {
				report.Errors = append(report.Errors, fmt.Sprintf("Error processing track %s: %v", number, err))
			}
			continue
		}
		report.Count++
		if len(report.Processed) < uploadProcessedPreview {
			report.Processed = append(report.Processed, number)
		}
	}

	s.audit.record(ctx, model.AuditBulkUpload, actor.Email, model.AuditTargetTrack, "bulk",
		fmt.Sprintf("uploaded %d tracks with status %q, %d errors", report.Count, params.Status, report.TotalErrors))

	s.logger.Info("Tracks service: manifest processed",
		"filename", params.Filename,
		"count", report.Count,
		"errors", report.TotalErrors,
		"archive_key", report.ArchiveKey)

	return report, nil
}

// archiveManifest keeps the raw file in object storage. Failures are logged
// and yield an empty key.
func (s *Tracks) archiveManifest(ctx context.Context, params UploadParams) string {
	if s.storage == nil {
		return ""
	}

	name := path.Base(strings.ReplaceAll(params.Filename, "\\", "/"))
	key := fmt.Sprintf("uploads/%s/%s-%s", s.now().UTC().Format(DateLayout), uuid.NewString(), name)
	format := upload.DetectFormat(params.Filename)

	err := s.storage.Upload(ctx, key, bytes.NewReader(params.Content), int64(len(params.Content)), format.ContentType())
	if err != nil {
		s.logger.Error("Tracks service: failed to archive manifest",
			"filename", params.Filename,
			"key", key,
			"error", err.Error())
		return ""
	}
	return key
}

// DownloadManifest reads back a manifest archived by BulkUpload.
func (s *Tracks) DownloadManifest(ctx context.Context, actor model.User, key string) (Manifest, error) {
	if err := Authorize(actor, model.AdminOnly); err != nil {
		return Manifest{}, err
	}
	if !strings.HasPrefix(key, manifestPrefix) || strings.Contains(key, "..") {
		return Manifest{}, fmt.Errorf("invalid archive key %q: %w", key, model.ErrValidation)
	}
	if s.storage == nil {
		return Manifest{}, fmt.Errorf("manifest archive is not configured: %w", model.ErrNotFound)
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to download manifest: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
	if err != nil {
		s.logger.Error("Tracks service: failed to read manifest",
			"key", key,
			"error", err.Error())
		return Manifest{}, fmt.Errorf("%w: failed to read manifest: %w", model.ErrStorage, err)
	}

	// Archived names are "<uuid>-<original name>".
	name := path.Base(key)
	if len(name) > 37 && name[36] == '-' {
		name = name[37:]
	}

	return Manifest{
		Filename:    name,
		ContentType: upload.DetectFormat(name).ContentType(),
		Content:     content,
	}, nil
}
