package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures records and attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("stage done", slog.String("stage", "dedup"))
		logger.Error("export failed", slog.Int("code", 500))

		require.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("stage done"))
		assert.True(t, handler.ContainsAttr("stage", "dedup"))
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	})

	t.Run("bound attrs share the store", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		component := logger.With(slog.String("component", "claims_service"))
		component.WithGroup("run").Info("started", slog.String("pipeline", "template"))

		require.Equal(t, 1, handler.Count())
		AssertLogAttr(t, handler, "component", "claims_service")
		AssertLogAttr(t, handler, "run.pipeline", "template")
	})

	t.Run("attrs bound inside a group keep it", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("run").With(slog.String("pipeline", "report")).WithGroup("stage").
			Info("done", slog.String("name", "dedup"))

		AssertLogAttr(t, handler, "run.pipeline", "report")
		AssertLogAttr(t, handler, "run.stage.name", "dedup")
	})

	t.Run("clear", func(t *testing.T) {
		logger, handler := NewTestLogger(t)
		logger.Info("one")
		logger.Info("two")
		handler.Clear()
		assert.Equal(t, 0, handler.Count())
		AssertNoErrors(t, handler)
	})

	t.Run("concurrent logging", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("decoded", slog.Int("upload", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, handler.Count())
		AssertLogContains(t, handler, slog.LevelInfo, "decoded")
	})
}
