package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/taischeck/pkg/logging"
)

func TestContextLogger(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("carries fields", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithOperation(ctx, "compare")
		ctx = logging.WithDocument(ctx, "response-2.json")
		ctx = logging.WithTenant(ctx, "tenant-x")

		logging.FromContext(ctx).Info().Msg("hello")

		assert.True(t, tl.Contains(`"operation":"compare"`))
		assert.True(t, tl.Contains(`"document":"response-2.json"`))
		assert.True(t, tl.Contains(`"tenant":"tenant-x"`))
		assert.Len(t, tl.Lines(), 1)
	})

	t.Run("run id generated when empty", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithRunID(ctx, "")

		id := logging.RunID(ctx)
		assert.Len(t, id, 36)
		logging.FromContext(ctx).Info().Msg("x")
		assert.True(t, tl.Contains(id))
	})

	t.Run("explicit run id kept", func(t *testing.T) {
		ctx := logging.WithRunID(context.Background(), "run-1")
		assert.Equal(t, "run-1", logging.RunID(ctx))
		assert.Equal(t, "", logging.RunID(context.Background()))
	})
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Info().Msg("captured")
	assert.True(t, tl.Contains("captured"))
}
