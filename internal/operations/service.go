package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/startupstack/startupstack/internal/llm"
	"github.com/startupstack/startupstack/internal/metrics"
)

const persistTimeout = 10 * time.Second

// Generator is the text-generation backend consumed by the dispatcher.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, params llm.GenParams) (string, error)
}

// HistoryStore persists operation records.
type HistoryStore interface {
	Insert(ctx context.Context, rec *Record) error
}

// QuotaChecker enforces the daily free-trial allowance.
type QuotaChecker interface {
	Check(ctx context.Context, userID uuid.UUID, operationType string) error
}

// CacheInvalidator drops cached user state after a history write so usage
// views don't serve stale counts.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Service is the operation dispatcher: it validates the request, enforces
// the quota, calls the generation backend, and records the outcome.
type Service struct {
	gen        Generator
	history    HistoryStore
	quota      QuotaChecker
	invalidate CacheInvalidator
	now        func() time.Time
}

// NewService creates a dispatcher. invalidate may be nil.
func NewService(gen Generator, history HistoryStore, quotaSvc QuotaChecker, invalidate CacheInvalidator) *Service {
	return &Service{
		gen:        gen,
		history:    history,
		quota:      quotaSvc,
		invalidate: invalidate,
		now:        time.Now,
	}
}

// Dispatch runs one logical operation. userID may be nil for anonymous,
// unmetered callers. On success the generated text is returned verbatim and,
// for known users, a history record is written best-effort in the background.
//
// Dispatch itself never retries: transport retry policy belongs to the
// calling client.
func (s *Service) Dispatch(ctx context.Context, operation Kind, params map[string]string, userID *uuid.UUID) (string, error) {
	spec, ok := kinds[operation]
	if !ok {
		metrics.OperationsTotal.WithLabelValues(string(operation), "unsupported").Inc()
		return "", &UnsupportedOperationError{Operation: string(operation), Supported: KindNames()}
	}

	if missing := spec.missingParams(params); len(missing) > 0 {
		metrics.OperationsTotal.WithLabelValues(string(operation), "invalid").Inc()
		return "", &MissingParamsError{Operation: operation, Missing: missing}
	}

	systemPrompt, userPrompt := spec.buildPrompts(params)

	if userID != nil {
		if err := s.quota.Check(ctx, *userID, string(operation)); err != nil {
			metrics.OperationsTotal.WithLabelValues(string(operation), "denied").Inc()
			return "", err
		}
	}

	result, err := s.gen.Generate(ctx, systemPrompt, userPrompt, spec.tuning)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(string(operation), "error").Inc()
		return "", err
	}

	if userID != nil && result != "" {
		s.recordAsync(ctx, operation, params, *userID, result)
	}

	metrics.OperationsTotal.WithLabelValues(string(operation), "success").Inc()
	return result, nil
}

// recordAsync persists the operation record without blocking the caller.
// Failures are swallowed: history is a best-effort side effect and must
// never alter the outcome of the generation call.
func (s *Service) recordAsync(ctx context.Context, operation Kind, params map[string]string, userID uuid.UUID, result string) {
	rec := &Record{
		ID:            uuid.New(),
		UserID:        userID,
		OperationType: string(operation),
		InputParams:   params,
		OutputResult:  result,
		CreatedAt:     s.now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()

		if err := s.history.Insert(ctx, rec); err != nil {
			slog.Warn("operations: recording history failed", "error", err, "user_id", userID, "operation", operation)
			return
		}
		if s.invalidate != nil {
			if err := s.invalidate.Invalidate(ctx, userID); err != nil {
				slog.Debug("operations: invalidating user cache failed", "error", err, "user_id", userID)
			}
		}
	}()
}
