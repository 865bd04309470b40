package infrastructure

import (
	"context"
	"sync"
	"time"

	"adsstudio/internal/domain"
	"adsstudio/pkg/logger"

	"github.com/google/uuid"
)

// implements domain.SessionRepository interface
type SessionRepository struct {
	data   map[string]domain.Session
	mutex  sync.RWMutex
	logger *logger.Logger
}

// creates a new in-memory session repository
func NewSessionRepository(logger *logger.Logger) *SessionRepository {
	return &SessionRepository{
		data:   make(map[string]domain.Session),
		logger: logger,
	}
}

func (r *SessionRepository) Create(ctx context.Context, form domain.CampaignForm) (*domain.Session, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session := domain.Session{
		ID:        uuid.New().String(),
		Form:      form,
		State:     domain.IdleState(),
		CreatedAt: time.Now(),
	}
	r.data[session.ID] = session

	r.logger.WithContext(ctx).WithField("session_id", session.ID).Info("Created session")
	return &session, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.data[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *SessionRepository) BeginSubmit(ctx context.Context, id string, form domain.CampaignForm, next domain.SubmissionState) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, exists := r.data[id]
	if !exists {
		return domain.ErrSessionNotFound
	}
	if session.State.InFlight() {
		return domain.ErrSubmitInFlight
	}

	session.Form = form
	session.State = next
	r.data[id] = session
	return nil
}

func (r *SessionRepository) SaveState(ctx context.Context, id string, state domain.SubmissionState) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, exists := r.data[id]
	if !exists {
		return domain.ErrSessionNotFound
	}
	if !session.State.InFlight() || session.State.Attempts != state.Attempts {
		r.logger.WithContext(ctx).WithFields(map[string]any{
			"session_id": id,
			"attempts":   state.Attempts,
			"current":    session.State.Status,
		}).Warn("Dropped outcome of superseded submission")
		return domain.ErrStaleSubmission
	}

	session.State = state
	r.data[id] = session

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"session_id": id,
		"status":     state.Status,
		"attempts":   state.Attempts,
	}).Debug("Stored session state")
	return nil
}

func (r *SessionRepository) Reset(ctx context.Context, id string, form domain.CampaignForm) (*domain.Session, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	session, exists := r.data[id]
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	if session.State.InFlight() {
		return nil, domain.ErrSubmitInFlight
	}

	session.Form = form
	session.State = session.State.Reset()
	r.data[id] = session

	r.logger.WithContext(ctx).WithField("session_id", id).Info("Reset session")
	return &session, nil
}
