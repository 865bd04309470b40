package domain

import (
	"errors"
	"fmt"
)

type ValidationRule string

const (
	RuleProductName ValidationRule = "product_name"
	RulePlatform    ValidationRule = "platform"
	RulePersonas    ValidationRule = "personas"
	RuleBudget      ValidationRule = "budget_daily"
)

// raised before any network activity
type ValidationError struct {
	Rule    ValidationRule
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// the request never completed
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// the service answered with a non-success status
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Detail)
}

// success status but the body was not JSON
type MalformedResponseError struct {
	StatusCode int
	Body       string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("status %d returned a non-JSON body (%d bytes)", e.StatusCode, len(e.Body))
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSubmitInFlight  = errors.New("a submission is already in progress")
	ErrNoPlan          = errors.New("no plan available")
	ErrSinkNotSet      = errors.New("sink URL not configured")
	ErrStaleSubmission = errors.New("submission was superseded")
)
