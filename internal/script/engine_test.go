package script

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/scripts", 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/scripts/"+name, []byte(content), 0o644))
	}

	engine := NewEngine(fs, "/scripts")
	require.NoError(t, engine.Load())
	return engine
}

func TestEngine_Load(t *testing.T) {
	t.Run("loads only tengo files", func(t *testing.T) {
		engine := newTestEngine(t, map[string]string{
			"topic_delete.tengo": `output.allow = true`,
			"notes.txt":          "not a script",
			"helper.tengo":       `output.x = 1`,
		})
		assert.Equal(t, []string{"helper", "topic_delete"}, engine.Names())
	})

	t.Run("load replaces the previous set", func(t *testing.T) {
		engine := newTestEngine(t, map[string]string{"a.tengo": `output.x = 1`})
		require.NoError(t, engine.fs.Remove("/scripts/a.tengo"))
		require.NoError(t, afero.WriteFile(engine.fs, "/scripts/b.tengo", []byte(`output.x = 2`), 0o644))

		require.NoError(t, engine.Load())
		assert.Equal(t, []string{"b"}, engine.Names())
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		engine := NewEngine(afero.NewMemMapFs(), "/nope")
		assert.Error(t, engine.Load())
	})
}

func TestEngine_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("reads input and writes output", func(t *testing.T) {
		engine := newTestEngine(t, map[string]string{
			"topic_delete.tengo": `
				if input.postcount == 0 {
					output.allow = true
				}
			`,
		})

		out, err := engine.Run(ctx, "topic_delete", map[string]any{"postcount": 0})
		require.NoError(t, err)
		assert.Equal(t, true, out["allow"])

		out, err = engine.Run(ctx, "topic_delete", map[string]any{"postcount": 3})
		require.NoError(t, err)
		assert.NotContains(t, out, "allow")
	})

	t.Run("unknown script", func(t *testing.T) {
		engine := newTestEngine(t, nil)
		_, err := engine.Run(ctx, "ghost", nil)
		assert.ErrorContains(t, err, "not loaded")
	})

	t.Run("compile errors are reported", func(t *testing.T) {
		engine := newTestEngine(t, map[string]string{"bad.tengo": `if {`})
		_, err := engine.Run(ctx, "bad", nil)
		assert.ErrorContains(t, err, "failed to compile")
	})

	t.Run("runaway scripts time out", func(t *testing.T) {
		engine := newTestEngine(t, map[string]string{
			"loop.tengo": `for { }`,
		})
		engine.SetMaxExecutionTime(50 * time.Millisecond)

		_, err := engine.Run(ctx, "loop", nil)
		assert.ErrorContains(t, err, "timed out")
	})

	t.Run("stdlib modules are available", func(t *testing.T) {
		engine := newTestEngine(t, map[string]string{
			"fmtuse.tengo": `
				text := import("text")
				output.upper = text.to_upper(input.word)
			`,
		})

		out, err := engine.Run(ctx, "fmtuse", map[string]any{"word": "pin"})
		require.NoError(t, err)
		assert.Equal(t, "PIN", out["upper"])
	})
}
