package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adsstudio/internal/domain"
	"adsstudio/pkg/logger"
	"adsstudio/pkg/metrics"

	"github.com/gosimple/slug"
)

// StudioService ties operator sessions to the submission pipeline
type StudioService struct {
	sessions    domain.SessionRepository
	submissions *SubmissionService
	exporter    domain.PlanExporter
	encoder     domain.ImageEncoder
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewStudioService(
	sessions domain.SessionRepository,
	submissions *SubmissionService,
	exporter domain.PlanExporter,
	encoder domain.ImageEncoder,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *StudioService {
	return &StudioService{
		sessions:    sessions,
		submissions: submissions,
		exporter:    exporter,
		encoder:     encoder,
		logger:      logger,
		metrics:     metrics,
	}
}

// NewSession opens a session on the default form
func (s *StudioService) NewSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.Create(ctx, domain.DefaultCampaignForm())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.metrics.RecordOperation("session_create")
	return session, nil
}

func (s *StudioService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}

// SubmitSession runs one attempt for the session. It refuses to start while a
// previous attempt is still waiting on the generation service.
func (s *StudioService) SubmitSession(ctx context.Context, id string, form domain.CampaignForm) (*domain.Session, error) {
	log := s.logger.WithContext(ctx)

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.InFlight() {
		return nil, domain.ErrSubmitInFlight
	}

	next, effect := s.submissions.Plan(ctx, session.State, form)
	if err := s.sessions.BeginSubmit(ctx, id, form, next); err != nil {
		return nil, err
	}

	if effect != nil {
		next = s.submissions.Execute(ctx, next, *effect)
		err := s.sessions.SaveState(ctx, id, next)
		switch {
		case errors.Is(err, domain.ErrStaleSubmission):
			return s.sessions.Get(ctx, id)
		case err != nil:
			log.WithError(err).Error("Failed to store submission outcome")
			return nil, fmt.Errorf("failed to store submission outcome: %w", err)
		}
	}

	session.Form = form
	session.State = next
	return session, nil
}

// ResetSession restores the default form and discards the result. A session
// with a pending attempt cannot be reset.
func (s *StudioService) ResetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.sessions.Reset(ctx, id, domain.DefaultCampaignForm())
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOperation("session_reset")
	return session, nil
}

// PlanDocument serializes the last successful plan for download
func (s *StudioService) PlanDocument(ctx context.Context, id string) (string, []byte, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if !session.State.Result.HasPlan() {
		return "", nil, domain.ErrNoPlan
	}

	data, err := MarshalPlan(session.State.Result.Plan)
	if err != nil {
		return "", nil, err
	}

	s.metrics.RecordOperation("plan_download")
	return PlanFileName(session.Form.ProductName), data, nil
}

// ExportPlan pushes the last successful plan to the configured sink
func (s *StudioService) ExportPlan(ctx context.Context, id string) (string, error) {
	log := s.logger.WithContext(ctx)

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !session.State.Result.HasPlan() {
		return "", domain.ErrNoPlan
	}

	name := PlanFileName(session.Form.ProductName)
	if err := s.exporter.ExportPlan(ctx, name, session.State.Result.Plan); err != nil {
		log.WithError(err).Error("Failed to export plan")
		return "", fmt.Errorf("failed to export plan: %w", err)
	}

	s.metrics.RecordOperation("plan_export")
	log.WithField("name", name).Info("Plan export completed successfully")
	return name, nil
}

// MaxImageBytes is the upload limit enforced by EncodeImage
func (s *StudioService) MaxImageBytes() int {
	return s.encoder.MaxBytes()
}

func (s *StudioService) EncodeImage(ctx context.Context, filename string, data []byte) (*domain.EncodedImage, error) {
	image, err := s.encoder.Encode(filename, data)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Rejected image upload")
		return nil, err
	}
	s.metrics.RecordOperation("image_encode")
	return image, nil
}

// MarshalPlan renders a plan as indented JSON
func MarshalPlan(plan any) ([]byte, error) {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}
	return data, nil
}

// PlanFileName names the download after the product
func PlanFileName(productName string) string {
	if s := slug.Make(productName); s != "" {
		return "plan-" + s + ".json"
	}
	return "plan.json"
}
