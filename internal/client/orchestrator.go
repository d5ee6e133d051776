package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/startupstack/startupstack/internal/operations"
)

const (
	defaultMaxAttempts    = 2
	defaultAttemptTimeout = 12 * time.Second
	defaultRetryDelay     = time.Second
)

// Normalized user-facing failure messages. Raw transport errors never reach
// the caller.
const (
	msgTimeout       = "The request to our AI service timed out. Please try again."
	msgNetwork       = "Network error while connecting to our AI service. Please check your internet connection."
	msgConfiguration = "StartupStack is not configured properly. Please contact support."
)

// ResultSink receives successful results for display. Rendering is outside
// this package's scope.
type ResultSink interface {
	Display(operation, result string, params map[string]string)
}

// Config holds orchestrator settings. Zero values take defaults.
type Config struct {
	// BaseURL of the dispatch service, e.g. "https://app.startupstack.io".
	BaseURL string
	// UserID is the locally stored user identifier; empty means anonymous.
	UserID string
	// AttemptTimeout bounds each individual attempt.
	AttemptTimeout time.Duration
	// MaxAttempts caps the total number of attempts per logical call.
	MaxAttempts int
	// RetryDelay is the linear backoff unit: attempt n waits n*RetryDelay.
	RetryDelay time.Duration
}

// Orchestrator wraps one logical operation call with a per-attempt timeout,
// bounded retry with linear backoff, and error normalization.
type Orchestrator struct {
	cfg   Config
	httpc *http.Client
	sink  ResultSink
}

// New creates an Orchestrator. sink may be nil.
func New(cfg Config, sink ResultSink) *Orchestrator {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Orchestrator{
		cfg:   cfg,
		httpc: &http.Client{},
		sink:  sink,
	}
}

// attemptFailure is the per-attempt classification driving the retry
// decision.
type attemptFailure struct {
	kind      FailureKind
	message   string
	retryable bool
}

// Invoke runs one logical operation call. Timeouts, unreachable servers and
// 5xx responses are retried up to the attempt ceiling with linear backoff;
// validation failures, unsupported operations, quota denials and
// configuration errors are terminal on first occurrence.
func (o *Orchestrator) Invoke(ctx context.Context, operation string, params map[string]string) (string, error) {
	var last *attemptFailure

	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		result, fail := o.attempt(ctx, operation, params)
		if fail == nil {
			if o.sink != nil {
				o.sink.Display(operation, result, params)
			}
			return result, nil
		}

		last = fail
		if !fail.retryable || attempt == o.cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(time.Duration(attempt) * o.cfg.RetryDelay):
		case <-ctx.Done():
			return "", &Error{Kind: FailTimeout, Message: msgTimeout}
		}
	}

	return "", &Error{Kind: last.kind, Message: last.message}
}

func (o *Orchestrator) attempt(ctx context.Context, operation string, params map[string]string) (string, *attemptFailure) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.AttemptTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"operation": operation,
		"params":    params,
		"userId":    o.cfg.UserID,
	})
	if err != nil {
		return "", &attemptFailure{kind: FailOperation, message: "AI Operation failed: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/api/v1/ai/operations", bytes.NewReader(body))
	if err != nil {
		return "", &attemptFailure{kind: FailOperation, message: "AI Operation failed: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpc.Do(req)
	if err != nil {
		return "", classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Result    string `json:"result"`
		Error     string `json:"error"`
		ErrorType string `json:"errorType"`
		IsLimit   bool   `json:"isLimit"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	// Quota denials arrive with a success status by server convention, so
	// the body flags are checked before anything else.
	if payload.IsLimit || payload.ErrorType == "FREE_TRIAL_LIMIT" {
		msg := payload.Error
		if msg == "" {
			msg = "Free trial limit reached for this tool today."
		}
		return "", &attemptFailure{kind: FailLimit, message: msg}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && payload.Error == "" {
		if decodeErr != nil || payload.Result == "" {
			return "", &attemptFailure{kind: FailOperation, message: "AI Operation failed: Unexpected API response format: missing result data"}
		}
		return payload.Result, nil
	}

	if payload.Error == operations.ConfigErrorMessage {
		return "", &attemptFailure{kind: FailConfiguration, message: msgConfiguration}
	}

	if resp.StatusCode == http.StatusRequestTimeout {
		return "", &attemptFailure{kind: FailTimeout, message: msgTimeout, retryable: true}
	}

	if resp.StatusCode >= 500 {
		detail := payload.Error
		if detail == "" {
			detail = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		return "", &attemptFailure{kind: FailOperation, message: "AI Operation failed: " + detail, retryable: true}
	}

	detail := payload.Error
	if detail == "" {
		detail = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	return "", &attemptFailure{kind: FailOperation, message: "AI Operation failed: " + detail}
}

func classifyTransport(ctx context.Context, err error) *attemptFailure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &attemptFailure{kind: FailTimeout, message: msgTimeout, retryable: true}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &attemptFailure{kind: FailTimeout, message: msgTimeout, retryable: true}
	}
	return &attemptFailure{kind: FailNetwork, message: msgNetwork, retryable: true}
}
