package script

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Script is a single moderation filter script loaded from disk.
type Script struct {
	Name    string
	Content string
}

// allowedModules is the safe subset of the Tengo stdlib exposed to filter
// scripts. No os, no rand, no network.
var allowedModules = []string{"math", "text", "times", "json", "fmt"}

// Run executes the named script with the given input map. The script sees an
// `input` map and must write its verdict into the predeclared `output` map.
// Execution is bounded by the engine's timeout; panics are converted to errors.
func (e *Engine) Run(ctx context.Context, name string, input map[string]any) (map[string]any, error) {
	script, ok := e.Get(name)
	if !ok {
		return nil, fmt.Errorf("script %q not loaded", name)
	}

	ts := tengo.NewScript([]byte(script.Content))
	ts.SetImports(stdlib.GetModuleMap(allowedModules...))

	if err := ts.Add("input", input); err != nil {
		return nil, fmt.Errorf("failed to set script input: %w", err)
	}
	if err := ts.Add("output", map[string]any{}); err != nil {
		return nil, fmt.Errorf("failed to set script output: %w", err)
	}

	compiled, err := ts.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile script %q: %w", name, err)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.maxExecutionTime)
	defer cancel()

	// Execute in a goroutine to enforce the timeout and contain panics.
	resultChan := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultChan <- fmt.Errorf("script panic: %v", r)
			}
		}()
		resultChan <- compiled.Run()
	}()

	select {
	case err := <-resultChan:
		if err != nil {
			return nil, fmt.Errorf("script %q execution failed: %w", name, err)
		}
	case <-execCtx.Done():
		return nil, fmt.Errorf("script %q execution timed out: %w", name, execCtx.Err())
	}

	out := compiled.Get("output").Map()
	slog.Debug("Filter script executed", "script", name, "output_keys", len(out))
	return out, nil
}

// SetMaxExecutionTime overrides the per-run execution timeout.
func (e *Engine) SetMaxExecutionTime(d time.Duration) {
	e.maxExecutionTime = d
}
