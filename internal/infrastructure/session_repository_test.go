package infrastructure

import (
	"context"
	"testing"

	"adsstudio/internal/domain"
	"adsstudio/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(logger.Discard())

	session, err := repo.Create(ctx, domain.DefaultCampaignForm())
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, domain.StatusIdle, session.State.Status)

	form := domain.DefaultCampaignForm()
	form.ProductName = "Pixel 8"
	next := session.State.Begin()
	require.NoError(t, repo.BeginSubmit(ctx, session.ID, form, next))

	assert.ErrorIs(t, repo.BeginSubmit(ctx, session.ID, form, next.Begin()), domain.ErrSubmitInFlight)

	require.NoError(t, repo.SaveState(ctx, session.ID, next.Fail("502 Bad Gateway")))

	stored, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 8", stored.Form.ProductName)
	assert.Equal(t, domain.StatusFailed, stored.State.Status)
	assert.Equal(t, 1, stored.State.Attempts)

	// a failed session accepts a new attempt
	retry := stored.State.Begin()
	require.NoError(t, repo.BeginSubmit(ctx, session.ID, form, retry))

	_, err = repo.Reset(ctx, session.ID, domain.DefaultCampaignForm())
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)

	require.NoError(t, repo.SaveState(ctx, session.ID, retry.Succeed(&domain.GenerationResult{Plan: "p"})))

	reset, err := repo.Reset(ctx, session.ID, domain.DefaultCampaignForm())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, reset.State.Status)
	assert.Equal(t, "iPhone 14 128GB", reset.Form.ProductName)
}

func TestSessionRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(logger.Discard())

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.BeginSubmit(ctx, "missing", domain.CampaignForm{}, domain.IdleState()), domain.ErrSessionNotFound)
	assert.ErrorIs(t, repo.SaveState(ctx, "missing", domain.IdleState()), domain.ErrSessionNotFound)

	_, err = repo.Reset(ctx, "missing", domain.CampaignForm{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(logger.Discard())

	session, err := repo.Create(ctx, domain.DefaultCampaignForm())
	require.NoError(t, err)
	session.Form.ProductName = "changed"

	stored, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 14 128GB", stored.Form.ProductName)
}

func TestSessionRepository_SaveStateRejectsStaleOutcome(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(logger.Discard())

	session, err := repo.Create(ctx, domain.DefaultCampaignForm())
	require.NoError(t, err)

	t.Run("no attempt in flight", func(t *testing.T) {
		err := repo.SaveState(ctx, session.ID, session.State.Begin().Succeed(nil))
		assert.ErrorIs(t, err, domain.ErrStaleSubmission)

		stored, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusIdle, stored.State.Status)
	})

	t.Run("different attempt in flight", func(t *testing.T) {
		first := session.State.Begin()
		require.NoError(t, repo.BeginSubmit(ctx, session.ID, domain.DefaultCampaignForm(), first))
		require.NoError(t, repo.SaveState(ctx, session.ID, first.Fail("502 Bad Gateway")))

		second := first.Fail("502 Bad Gateway").Begin()
		require.NoError(t, repo.BeginSubmit(ctx, session.ID, domain.DefaultCampaignForm(), second))

		err := repo.SaveState(ctx, session.ID, first.Succeed(&domain.GenerationResult{Plan: "old"}))
		assert.ErrorIs(t, err, domain.ErrStaleSubmission)

		stored, err := repo.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusSubmitting, stored.State.Status)
		assert.Equal(t, 2, stored.State.Attempts)
	})
}
