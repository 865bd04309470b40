package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"adsstudio/internal/domain"
	"adsstudio/pkg/logger"
	"adsstudio/pkg/metrics"

	"github.com/tidwall/gjson"
)

const (
	SegmentPath = "/ads/segment"

	nonJSONPlaceholder    = "non-JSON response from server"
	genericFailureMessage = "generation endpoint error"
)

// SubmissionService validates a form, sends it to the generation service and
// classifies the outcome. It never holds state itself: callers pass the
// previous snapshot and get the next one back.
type SubmissionService struct {
	client   domain.GenerationClient
	endpoint string
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewSubmissionService(
	client domain.GenerationClient,
	apiBase string,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *SubmissionService {
	return &SubmissionService{
		client:   client,
		endpoint: SegmentEndpoint(apiBase),
		logger:   logger,
		metrics:  metrics,
	}
}

// SegmentEndpoint joins the API base with the segmentation path
func SegmentEndpoint(apiBase string) string {
	return strings.TrimRight(apiBase, "/") + SegmentPath
}

func (s *SubmissionService) Endpoint() string {
	return s.endpoint
}

// Validate reports the first violated submission rule
func Validate(form domain.CampaignForm) error {
	if strings.TrimSpace(form.ProductName) == "" {
		return &domain.ValidationError{Rule: domain.RuleProductName, Message: "product name is required"}
	}
	if len(form.Platform) == 0 {
		return &domain.ValidationError{Rule: domain.RulePlatform, Message: "select at least one platform"}
	}
	if len(form.Personas) == 0 {
		return &domain.ValidationError{Rule: domain.RulePersonas, Message: "add at least one audience segment"}
	}
	if budget, ok := form.BudgetDaily.Float(); form.BudgetDaily.IsEmpty() || !ok || budget <= 0 {
		return &domain.ValidationError{Rule: domain.RuleBudget, Message: "daily budget must be greater than 0"}
	}
	return nil
}

// Plan moves prev into submitting and describes the request to make. When the
// form is invalid it returns the failed state and no effect.
func (s *SubmissionService) Plan(ctx context.Context, prev domain.SubmissionState, form domain.CampaignForm) (domain.SubmissionState, *domain.SubmitEffect) {
	next := prev.Begin()

	if err := Validate(form); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			s.metrics.RecordValidationFailure(string(validationErr.Rule))
		}
		s.metrics.RecordSubmission("invalid", 0)
		s.logger.WithContext(ctx).WithError(err).Warn("Campaign form rejected")
		return next.Fail(err.Error()), nil
	}

	return next, &domain.SubmitEffect{
		Endpoint: s.endpoint,
		Body:     CleanPayload(form),
	}
}

// Execute performs the effect once and folds the outcome into state
func (s *SubmissionService) Execute(ctx context.Context, state domain.SubmissionState, effect domain.SubmitEffect) domain.SubmissionState {
	start := time.Now()
	s.metrics.IncSubmissionsInProgress()
	defer s.metrics.DecSubmissionsInProgress()

	log := s.logger.WithContext(ctx)
	log.WithFields(map[string]any{
		"endpoint": effect.Endpoint,
		"personas": len(effect.Body.Personas),
		"platform": effect.Body.Platform,
	}).Info("Submitting campaign")

	resp, err := s.client.Generate(ctx, effect)
	next, outcome := classify(state, resp, err)
	duration := time.Since(start)

	var malformed *domain.MalformedResponseError
	if errors.As(outcome, &malformed) {
		s.metrics.RecordMalformedResponse()
		log.WithError(malformed).Warn("Generation service returned a non-JSON body")
	}

	s.metrics.RecordSubmission(string(next.Status), duration)

	if next.Status == domain.StatusFailed {
		log.WithFields(map[string]any{
			"duration": duration,
			"error":    next.Error,
		}).Error("Campaign submission failed")
		return next
	}

	log.WithFields(map[string]any{
		"duration": duration,
		"has_plan": next.Result.HasPlan(),
	}).Info("Campaign submission succeeded")
	return next
}

// Submit runs a complete attempt: validation, one request, classification
func (s *SubmissionService) Submit(ctx context.Context, prev domain.SubmissionState, form domain.CampaignForm) domain.SubmissionState {
	next, effect := s.Plan(ctx, prev, form)
	if effect == nil {
		return next
	}
	return s.Execute(ctx, next, *effect)
}

// Complete classifies the transport outcome of an attempt
func Complete(state domain.SubmissionState, resp *domain.RawResponse, err error) domain.SubmissionState {
	next, _ := classify(state, resp, err)
	return next
}

func classify(state domain.SubmissionState, resp *domain.RawResponse, err error) (domain.SubmissionState, error) {
	if err != nil {
		return state.Fail(err.Error()), err
	}
	if resp == nil {
		return state.Fail(genericFailureMessage), errors.New(genericFailureMessage)
	}

	result, err := InterpretResponse(resp)
	var malformed *domain.MalformedResponseError
	switch {
	case err == nil, errors.As(err, &malformed):
		return state.Succeed(result), err
	default:
		return state.Fail(err.Error()), err
	}
}

// InterpretResponse reads the body as text first. A success with a non-JSON
// body yields a diagnostic result alongside a *domain.MalformedResponseError;
// a non-success status yields a *domain.ServiceError.
func InterpretResponse(resp *domain.RawResponse) (*domain.GenerationResult, error) {
	text := string(resp.Body)
	parsed := strings.TrimSpace(text) == "" || gjson.Valid(text)

	if !resp.OK() {
		detail := ""
		if parsed {
			detail = detailText(gjson.Get(text, "detail"))
		} else {
			detail = firstNonEmpty(text, nonJSONPlaceholder)
		}
		return nil, &domain.ServiceError{
			StatusCode: resp.StatusCode,
			Detail:     FailureDetail(detail, resp.StatusText),
		}
	}

	if strings.TrimSpace(text) == "" {
		return &domain.GenerationResult{}, nil
	}

	var result domain.GenerationResult
	if parsed {
		if err := json.Unmarshal(resp.Body, &result); err == nil {
			return &result, nil
		}
	}

	return &domain.GenerationResult{Detail: firstNonEmpty(text, nonJSONPlaceholder)},
		&domain.MalformedResponseError{StatusCode: resp.StatusCode, Body: text}
}

// FailureDetail picks the explanation for a failed call: the body's detail
// field, then the transport status text, then a generic message.
func FailureDetail(detail, statusText string) string {
	return firstNonEmpty(detail, statusText, genericFailureMessage)
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

func detailText(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return value.Str
	case gjson.Number, gjson.True, gjson.JSON:
		return value.Raw
	default:
		return ""
	}
}
