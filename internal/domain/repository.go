package domain

import (
	"context"
	"time"
)

// SubmitEffect describes the single request a submission needs
type SubmitEffect struct {
	Endpoint string
	Body     RequestBody
}

// operator session: the form snapshot plus the single result slot
type Session struct {
	ID        string          `json:"id"`
	Form      CampaignForm    `json:"form"`
	State     SubmissionState `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

type EncodedImage struct {
	DataURL    string `json:"image_base64"`
	PreviewURL string `json:"image_url,omitempty"`
	MimeType   string `json:"mime_type"`
	Size       int    `json:"size"`
}

// interface for the remote generation service
type GenerationClient interface {
	Generate(ctx context.Context, effect SubmitEffect) (*RawResponse, error)
}

// interface for session state operations
type SessionRepository interface {
	Create(ctx context.Context, form CampaignForm) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	// BeginSubmit stores the form and next state unless an attempt is in flight
	BeginSubmit(ctx context.Context, id string, form CampaignForm, next SubmissionState) error
	// SaveState records the outcome of the attempt numbered state.Attempts. It
	// returns ErrStaleSubmission when that attempt is no longer the one in flight.
	SaveState(ctx context.Context, id string, state SubmissionState) error
	// Reset refuses with ErrSubmitInFlight while an attempt is pending
	Reset(ctx context.Context, id string, form CampaignForm) (*Session, error)
}

// interface for pushing a plan to an external system
type PlanExporter interface {
	ExportPlan(ctx context.Context, name string, plan any) error
}

// interface for turning an uploaded file into a data URL
type ImageEncoder interface {
	Encode(filename string, data []byte) (*EncodedImage, error)
	// MaxBytes is the upload limit, zero when unbounded
	MaxBytes() int
}
