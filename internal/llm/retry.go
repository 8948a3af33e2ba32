package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// Backoff factors. Rate limits back off much harder than ordinary
// transient failures so repeated calls do not burn remaining quota.
const (
	transientBackoffFactor = 2
	rateLimitBackoffFactor = 4
)

// withRetry runs call with exponential backoff. Rate-limited failures
// use the longer backoff factor; fatal failures return immediately.
// Once retries are exhausted the last classified error is returned and
// callers must treat it as terminal; the retry policy is local to the
// transport and is never re-entered upstream.
func withRetry(ctx context.Context, cfg *Config, call func(context.Context) (string, error)) (string, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := cfg.InitialRetryDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	for attempt := 0; ; attempt++ {
		text, err := call(ctx)
		if err == nil {
			return text, nil
		}

		kind := KindOf(err)
		if kind == KindFatal || attempt >= maxRetries {
			return "", err
		}

		factor := transientBackoffFactor
		if kind == KindRateLimited {
			factor = rateLimitBackoffFactor
		}
		delay := baseDelay
		for i := 0; i < attempt; i++ {
			delay *= time.Duration(factor)
		}

		select {
		case <-ctx.Done():
			return "", &CallError{Kind: KindTransient, Message: "context cancelled during retry backoff", Cause: ctx.Err()}
		case <-time.After(delay):
		}
	}
}

// classifyGenaiError maps a raw provider error onto a CallError kind.
// Classification happens once, here at the boundary; nothing downstream
// inspects error text.
func classifyGenaiError(err error) *CallError {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return &CallError{Kind: KindRateLimited, Message: "provider rate limit exceeded", Cause: err}
		case apiErr.Code == 401 || apiErr.Code == 403 || apiErr.Code == 400 || apiErr.Code == 404:
			return &CallError{Kind: KindFatal, Message: "provider rejected request", Cause: err}
		case apiErr.Code >= 500:
			return &CallError{Kind: KindTransient, Message: "provider server error", Cause: err}
		}
	}

	// Some SDK paths surface quota failures without a googleapi.Error.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota") || strings.Contains(msg, "resource exhausted") {
		return &CallError{Kind: KindRateLimited, Message: "provider rate limit exceeded", Cause: err}
	}

	return &CallError{Kind: KindTransient, Message: "provider call failed", Cause: err}
}
