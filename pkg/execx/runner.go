package execx

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Result contains the outcome of an external command invocation.
type Result struct {
	// Command is the rendered command line, for logging and step records.
	Command string `json:"command"`

	// ExitCode is the process exit code. Zero means success.
	ExitCode int `json:"exit_code"`

	// Output is the combined stdout and stderr of the process.
	Output string `json:"output"`

	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration"`
}

// Ok reports whether the command exited with status zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Quote wraps s in single quotes for interpolation into a RunShell script,
// escaping embedded single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Runner executes external commands. Implementations must capture combined
// output and classify non-zero exits via Result rather than returning an
// error; the returned error is reserved for failures to execute at all
// (binary missing, context cancelled).
type Runner interface {
	// Run executes a program with arguments.
	Run(ctx context.Context, name string, args ...string) (Result, error)

	// RunShell executes a script through /bin/sh -c, for pipelines and
	// redirections (schema imports, database dumps).
	RunShell(ctx context.Context, script string) (Result, error)
}

// Local runs commands on the local host.
type Local struct{}

// NewLocal creates a runner that executes commands on the local host.
func NewLocal() *Local {
	return &Local{}
}

// Run executes a program with arguments and captures combined output.
func (l *Local) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return l.execute(ctx, cmd, name+" "+strings.Join(args, " "))
}

// RunShell executes a script through /bin/sh -c.
func (l *Local) RunShell(ctx context.Context, script string) (Result, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", script)
	return l.execute(ctx, cmd, script)
}

func (l *Local) execute(ctx context.Context, cmd *exec.Cmd, rendered string) (Result, error) {
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	log.Debug().Str("command", rendered).Msg("Executing command")

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Command:  rendered,
		Output:   combined.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return result, fmt.Errorf("failed to execute %q: %w", rendered, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	log.Debug().
		Str("command", rendered).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("Command finished")

	return result, nil
}
