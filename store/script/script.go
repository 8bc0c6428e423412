// Package script provides automation-channel runners. The real runner
// shells out to osascript; Func and Recorder support composition and tests.
package script

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/macmeta/macmeta/data"
)

// Osascript runs scripts through the system osascript binary. The run is
// fire-and-forget from the caller's perspective: a zero exit status means
// the script was delivered, not that the target verified the result.
type Osascript struct{}

func (Osascript) RunScript(ctx context.Context, script string) error {
	bin, err := exec.LookPath("osascript")
	if err != nil {
		return fmt.Errorf("%w: osascript not found", data.ErrAutomationUnavailable)
	}
	cmd := exec.CommandContext(ctx, bin, "-e", script)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %v: %s", data.ErrAutomationUnavailable, err, out)
	}
	return nil
}

// Func adapts a function to the ScriptRunner contract.
type Func func(ctx context.Context, script string) error

func (f Func) RunScript(ctx context.Context, script string) error {
	return f(ctx, script)
}

// Recorder captures every script it is asked to run; used in tests.
type Recorder struct {
	mu      sync.Mutex
	Scripts []string
	// Err, when set, is returned from every run.
	Err error
}

func (r *Recorder) RunScript(ctx context.Context, script string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Scripts = append(r.Scripts, script)
	return nil
}

// Unavailable always fails with ErrAutomationUnavailable; the runner for
// hosts without an automation target.
type Unavailable struct{}

func (Unavailable) RunScript(ctx context.Context, script string) error {
	return fmt.Errorf("%w: no automation target on this host", data.ErrAutomationUnavailable)
}
