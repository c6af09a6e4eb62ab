package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vanderheijden86/faqview/pkg/debug"
)

// maxSummaryStderr bounds how much of a failing hook's stderr Summary shows.
const maxSummaryStderr = 200

// HookResult records one hook execution.
type HookResult struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs configured hooks for a single export.
type Executor struct {
	config  *Config
	context ExportContext
	results []HookResult
}

// NewExecutor creates an executor for cfg. A nil cfg runs nothing.
func NewExecutor(cfg *Config, ctx ExportContext) *Executor {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Executor{config: cfg, context: ctx}
}

// RunPreExport runs pre-export hooks in order, stopping at the first failure
// whose on_error is "fail".
func (e *Executor) RunPreExport() error {
	for _, hook := range e.config.Hooks.PreExport {
		res := e.run(hook, PreExport)
		if !res.Success && hook.OnError != "continue" {
			return fmt.Errorf("pre-export hook %q failed: %w", hook.Name, res.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook. The first failure marked
// on_error "fail" is returned after the rest have run.
func (e *Executor) RunPostExport() error {
	var first error
	for _, hook := range e.config.Hooks.PostExport {
		res := e.run(hook, PostExport)
		if !res.Success {
			if hook.OnError == "fail" && first == nil {
				first = fmt.Errorf("post-export hook %q failed: %w", hook.Name, res.Error)
			} else {
				debug.Log("post-export hook %q failed: %v", hook.Name, res.Error)
			}
		}
	}
	return first
}

// Results returns a copy of the results recorded so far.
func (e *Executor) Results() []HookResult {
	out := make([]HookResult, len(e.results))
	copy(out, e.results)
	return out
}

// Summary describes what ran, e.g. "hooks: 1 succeeded, 1 failed".
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	var lines []string
	for _, r := range e.results {
		if r.Success {
			ok++
			continue
		}
		failed++
		line := fmt.Sprintf("  %s %s: %v", r.Phase, r.Hook.Name, r.Error)
		if r.Stderr != "" {
			line += " (" + truncate(r.Stderr, maxSummaryStderr) + ")"
		}
		lines = append(lines, line)
	}
	head := fmt.Sprintf("hooks: %d succeeded, %d failed", ok, failed)
	if len(lines) == 0 {
		return head
	}
	return head + "\n" + strings.Join(lines, "\n")
}

func (e *Executor) run(hook Hook, phase HookPhase) HookResult {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctxEnv := e.context.ToEnv()
	lookup := envLookup(ctxEnv)

	cmd := exec.CommandContext(ctx, "sh", "-c", hook.Command)
	cmd.Env = append(os.Environ(), ctxEnv...)
	for k, v := range hook.Env {
		cmd.Env = append(cmd.Env, k+"="+os.Expand(v, lookup))
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of sh may hold the output pipes open after a kill.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	res := HookResult{
		Hook:     hook,
		Phase:    phase,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Error = fmt.Errorf("timed out after %s", timeout)
	case err != nil:
		res.Error = err
	default:
		res.Success = true
	}
	debug.Log("hook %s/%s finished in %s (success=%v)", phase, hook.Name, res.Duration, res.Success)
	e.results = append(e.results, res)
	return res
}

// envLookup resolves names from the export context first, then the process
// environment.
func envLookup(ctxEnv []string) func(string) string {
	vars := make(map[string]string, len(ctxEnv))
	for _, kv := range ctxEnv {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// RunHooks loads hooks from projectDir and returns an executor, or nil when
// noHooks is set or nothing is configured.
func RunHooks(projectDir string, ctx ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithProjectDir(projectDir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	for _, w := range loader.Warnings() {
		debug.Log("hooks: %s", w)
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), ctx), nil
}
