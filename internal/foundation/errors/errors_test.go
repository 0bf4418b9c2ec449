package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())
		require.Equal(t, "config.yaml", err.Context()["file"])
		require.Equal(t, "[config:fatal] invalid configuration", err.Error())
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		inner := ConfigError("bad analyzer url").Build()
		wrapped := fmt.Errorf("loading: %w", inner)

		got, ok := AsClassified(wrapped)
		require.True(t, ok)
		require.Same(t, inner, got)
		require.True(t, HasCategory(wrapped, CategoryConfig))
		require.False(t, HasCategory(errors.New("plain"), CategoryConfig))
		require.False(t, inner.CanRetry())
		require.True(t, inner.IsFatal())
	})
}

func TestErrorBuilder(t *testing.T) {
	original := errors.New("connection refused")
	err := WrapError(original, CategoryUpstream, "analyzer unreachable").
		Warning().
		Retryable().
		WithContext("url", "http://localhost:8000/analyze").
		WithContext("attempt", 3).
		Build()

	require.Equal(t, SeverityWarning, err.Severity())
	require.ErrorIs(t, err, original)
	require.True(t, IsRetryable(err))
	require.False(t, IsRetryable(original))
	require.Equal(t, 3, err.Context()["attempt"])
	require.Equal(t, "[upstream:warning] analyzer unreachable: connection refused", err.Error())
}

func TestUserActionIsNotRetryable(t *testing.T) {
	err := UpstreamError("analyzer rejected industry").UserAction().Build()
	require.False(t, err.CanRetry())
}

func TestLogAttrs(t *testing.T) {
	err := WrapError(errors.New("disk full"), CategoryStorage, "save report").
		WithContext("analysis_id", "a1").
		WithContext("attempt", 2).
		Build()

	attrs := err.LogAttrs()
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, a.Key)
	}
	require.Equal(t, []string{"category", "error", "analysis_id", "attempt"}, keys)
	require.Equal(t, "storage", attrs[0].Value.String())
	require.Equal(t, "disk full", attrs[1].Value.String())

	retryable := UpstreamError("timeout").Build().LogAttrs()
	require.Equal(t, "retryable", retryable[1].Key)
	require.True(t, retryable[1].Value.Bool())
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		builder  *ErrorBuilder
		category ErrorCategory
		retry    bool
	}{
		{ValidationError("x"), CategoryValidation, false},
		{NotFoundError("x"), CategoryNotFound, false},
		{TooLargeError("x"), CategoryTooLarge, false},
		{UpstreamError("x"), CategoryUpstream, true},
		{EventError("x"), CategoryMessaging, false},
		{StorageError("x"), CategoryStorage, false},
		{FileSystemError("x"), CategoryFileSystem, false},
		{RuntimeError("x"), CategoryRuntime, false},
		{InternalError("x"), CategoryInternal, false},
	}
	for _, tt := range tests {
		err := tt.builder.Build()
		require.Equal(t, tt.category, err.Category())
		require.Equal(t, tt.retry, err.CanRetry(), tt.category)
	}
}
