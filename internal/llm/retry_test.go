package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func fastRetryConfig() *Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.InitialRetryDelay = time.Millisecond
	return cfg
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	text, err := withRetry(context.Background(), fastRetryConfig(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	text, err := withRetry(context.Background(), fastRetryConfig(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &CallError{Kind: KindTransient, Message: "flaky"}
		}
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_FatalDoesNotRetry(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetryConfig(), func(context.Context) (string, error) {
		calls++
		return "", &CallError{Kind: KindFatal, Message: "bad key"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, KindFatal, KindOf(err))
}

func TestWithRetry_ExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetryConfig(), func(context.Context) (string, error) {
		calls++
		return "", &CallError{Kind: KindRateLimited, Message: "quota"}
	})
	require.Error(t, err)
	// MaxRetries=2 means one initial attempt plus two retries.
	assert.Equal(t, 3, calls)
	assert.True(t, IsRateLimited(err))
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := withRetry(ctx, fastRetryConfig(), func(context.Context) (string, error) {
		return "", &CallError{Kind: KindTransient, Message: "flaky"}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyGenaiError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"http 429", &googleapi.Error{Code: 429}, KindRateLimited},
		{"http 401", &googleapi.Error{Code: 401}, KindFatal},
		{"http 403", &googleapi.Error{Code: 403}, KindFatal},
		{"http 404", &googleapi.Error{Code: 404}, KindFatal},
		{"http 500", &googleapi.Error{Code: 500}, KindTransient},
		{"http 503", &googleapi.Error{Code: 503}, KindTransient},
		{"quota text", errors.New("generativelanguage: quota exceeded for model"), KindRateLimited},
		{"rate limit text", errors.New("Rate limit reached, retry later"), KindRateLimited},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = ..."), KindTransient},
		{"unknown", errors.New("connection reset by peer"), KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyGenaiError(tt.err)
			assert.Equal(t, tt.expected, got.Kind)
		})
	}
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock(`{"a":1}`))
	// A language identifier on the opening fence line is skipped.
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```javascript\n{\"a\":1}\n```"))
	// A fenced bare word, the shape a fenced classifier label takes.
	assert.Equal(t, "RESUME_BUILDER", CleanJSONBlock("```\nRESUME_BUILDER\n```"))
	// Content starting with a brace on the fence line is not mistaken
	// for a language identifier.
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```{\"a\":1}\n```"))
}
