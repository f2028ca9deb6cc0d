package handler

import (
	"time"

	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/service"
	"github.com/dtroode/deltacargo-server/internal/timeline"
)

// Empty is the request of methods that take no arguments.
type Empty struct{}

// StatusResponse acknowledges a command.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type UserMessage struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Branch       string  `json:"branch"`
	WhatsApp     string  `json:"whatsapp"`
	PersonalCode string  `json:"personal_code"`
	Role         string  `json:"role"`
	Active       bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	LastLogin    *string `json:"last_login"`
}

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	WhatsApp     string `json:"whatsapp"`
	Branch       string `json:"branch"`
	PersonalCode string `json:"personal_code,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserMessage `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type EventMessage struct {
	Status    string `json:"status"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type TrackMessage struct {
	TrackNumber   string         `json:"track_number"`
	Status        string         `json:"status"`
	DepartureDate *string        `json:"departure_date"`
	PersonalCode  *string        `json:"personal_code"`
	IsAssigned    bool           `json:"is_assigned"`
	IsArchived    bool           `json:"is_archived"`
	Timeline      []EventMessage `json:"status_timeline,omitempty"`
	UnknownStatus bool           `json:"unknown_status,omitempty"`
}

type TrackNumberRequest struct {
	TrackNumber string `json:"track_number"`
}

type ClaimRequest struct {
	TrackNumber  string `json:"track_number"`
	PersonalCode string `json:"personal_code"`
}

type ListOwnedRequest struct {
	PersonalCode string `json:"personal_code"`
	Archived     bool   `json:"archived"`
}

type TrackListResponse struct {
	Tracks []TrackMessage `json:"tracks"`
}

type UploadRequest struct {
	Filename      string `json:"filename"`
	Content       []byte `json:"content"`
	DepartureDate string `json:"departure_date"`
	Status        string `json:"status"`
}

type UploadResponse struct {
	Success         bool     `json:"success"`
	Count           int      `json:"count"`
	ProcessedTracks []string `json:"processed_tracks"`
	Errors          []string `json:"errors"`
	TotalErrors     int      `json:"total_errors"`
	ArchiveKey      string   `json:"archive_key,omitempty"`
}

type ManifestRequest struct {
	ArchiveKey string `json:"archive_key"`
}

type ManifestResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

type UpsertRecordRequest struct {
	TrackNumber   string `json:"track_number"`
	Status        string `json:"status"`
	DepartureDate string `json:"departure_date"`
}

type UpdateStatusRequest struct {
	TrackNumber string `json:"track_number"`
	NewStatus   string `json:"new_status"`
}

type UpdateStatusResponse struct {
	Success     bool   `json:"success"`
	TrackNumber string `json:"track_number"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
}

type BatchUpdateStatusRequest struct {
	DepartureDate string `json:"departure_date"`
	NewStatus     string `json:"new_status"`
}

type BatchUpdateStatusResponse struct {
	Success       bool     `json:"success"`
	UpdatedCount  int      `json:"updated_count"`
	DepartureDate string   `json:"departure_date"`
	NewStatus     string   `json:"new_status"`
	Tracks        []string `json:"tracks"`
}

type CalendarTrack struct {
	TrackNumber  string  `json:"track_number"`
	Status       string  `json:"status"`
	PersonalCode *string `json:"personal_code"`
	IsAssigned   bool    `json:"is_assigned"`
}

type CalendarDay struct {
	Date   string          `json:"date"`
	Count  int             `json:"count"`
	Tracks []CalendarTrack `json:"tracks"`
}

type CalendarResponse struct {
	Days []CalendarDay `json:"days"`
}

type ScanRequest struct {
	// TrackNumbers is a comma-separated list as produced by a barcode scanner.
	TrackNumbers string `json:"track_numbers"`
}

type ScanResult struct {
	TrackNumber  string `json:"track_number"`
	Found        bool   `json:"found"`
	Status       string `json:"status,omitempty"`
	PersonalCode string `json:"personal_code,omitempty"`
	CanDeliver   bool   `json:"can_deliver"`
}

type ScanValidateResponse struct {
	TotalScanned int          `json:"total_scanned"`
	Found        int          `json:"found"`
	NotFound     int          `json:"not_found"`
	Results      []ScanResult `json:"results"`
}

type ScanOutcomeResponse struct {
	Success  bool     `json:"success"`
	Affected int      `json:"affected"`
	Errors   []string `json:"errors"`
}

type CreateUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	WhatsApp     string `json:"whatsapp"`
	Branch       string `json:"branch"`
	PersonalCode string `json:"personal_code,omitempty"`
	Role         string `json:"role,omitempty"`
}

type UserListResponse struct {
	Users []UserMessage `json:"users"`
}

type UserIDRequest struct {
	UserID string `json:"user_id"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

type PasswordResponse struct {
	Success     bool   `json:"success"`
	UserEmail   string `json:"user_email"`
	UserName    string `json:"user_name"`
	NewPassword string `json:"new_password"`
}

type SetRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type SetActiveRequest struct {
	UserID string `json:"user_id"`
	Active bool   `json:"is_active"`
}

func toUserMessage(p model.Profile) UserMessage {
	msg := UserMessage{
		ID:           p.ID.String(),
		Email:        p.Email,
		Name:         p.Name,
		Branch:       p.Branch,
		WhatsApp:     p.WhatsApp,
		PersonalCode: p.PersonalCode,
		Role:         string(p.Role),
		Active:       p.Active,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.LastLogin != nil {
		s := p.LastLogin.UTC().Format(time.RFC3339)
		msg.LastLogin = &s
	}
	return msg
}

func formatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(service.DateLayout)
	return &s
}

func toTrackMessage(t model.Track) TrackMessage {
	return TrackMessage{
		TrackNumber:   t.Number,
		Status:        t.Status,
		DepartureDate: formatDate(t.DepartureDate),
		PersonalCode:  t.PersonalCode,
		IsAssigned:    t.Assigned(),
		IsArchived:    t.Archived,
	}
}

func toTrackView(v service.TrackView) TrackMessage {
	msg := toTrackMessage(v.Track)
	msg.Timeline = toEvents(v.Timeline)
	msg.UnknownStatus = v.Timeline.Unknown
	return msg
}

func toEvents(tl timeline.Timeline) []EventMessage {
	events := make([]EventMessage, 0, len(tl.Events))
	for _, ev := range tl.Events {
		events = append(events, EventMessage{Status: ev.Stage, Date: ev.Date, Completed: ev.Completed})
	}
	return events
}
