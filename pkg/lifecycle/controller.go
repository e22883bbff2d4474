package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kartik240803/zabbix-auto-deploy/pkg/backup"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/config"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/execx"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/platform"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/prompt"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/stores"
	"github.com/Kartik240803/zabbix-auto-deploy/pkg/ux"
	"github.com/rs/zerolog/log"
)

// Recorder persists run history. Implementations must never influence
// control flow; the controller logs recorder failures as warnings and
// continues.
type Recorder interface {
	BeginRun(ctx context.Context, action, version string) error
	RecordStep(ctx context.Context, seq int, name string, status stores.StepStatus, output string, duration time.Duration) error
	FinishRun(ctx context.Context, runErr error) error
}

// Controller sequences a single lifecycle action on the local host. Running
// two instances concurrently against the same host is unsupported.
type Controller struct {
	Runner      execx.Runner
	Confirmer   prompt.Confirmer
	Credentials prompt.CredentialProvider
	Chooser     prompt.Chooser
	Backups     *backup.Manager
	Cfg         *config.Config
	Recorder    Recorder

	env      platform.Environment
	progress Progress
}

// step is one unit of a lifecycle sequence. fn returns captured output for
// the run record alongside the error.
type step struct {
	name string
	fn   func(ctx context.Context) (string, error)
}

// Run validates the request, probes the environment once, and executes the
// selected action sequence.
func (c *Controller) Run(ctx context.Context, req *Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := c.prepareCredentials(req); err != nil {
		return err
	}

	env, err := platform.Probe(ctx, c.Runner)
	if err != nil {
		return NewEnvironmentError("failed to probe target environment", err)
	}
	if !platform.Supported(env.DistroID) {
		return NewEnvironmentError(fmt.Sprintf("unsupported distribution %q", env.DistroID), nil)
	}
	c.env = env

	c.beginRecord(ctx, req)

	var runErr error
	switch req.Action {
	case ActionInstall:
		runErr = c.runSequence(ctx, c.installSteps(req), false)
	case ActionUpgrade:
		runErr = c.runSequence(ctx, c.upgradeSteps(req), false)
	case ActionUninstall:
		runErr = c.runSequence(ctx, c.uninstallSteps(req), true)
	default:
		runErr = NewValidationError(fmt.Sprintf("unknown action %q", req.Action), nil)
	}

	c.finishRecord(ctx, runErr)

	if runErr != nil {
		return runErr
	}
	ux.Success(fmt.Sprintf("%s completed", req.Action))
	return nil
}

// Environment returns the probed target environment.
func (c *Controller) Environment() platform.Environment {
	return c.env
}

// prepareCredentials fills the database credential for install runs: the
// fixed fallback in default mode, a prompted non-empty value in manual mode.
func (c *Controller) prepareCredentials(req *Request) error {
	if req.Action != ActionInstall {
		return nil
	}
	if req.Mode == ModeManual {
		pw, err := c.Credentials.Password("Database password for the zabbix user")
		if err != nil {
			return NewValidationError("failed to read credential", err)
		}
		if strings.TrimSpace(pw) == "" {
			return NewValidationError("manual mode requires a non-empty database password", nil)
		}
		req.DBPassword = pw
		return nil
	}
	req.DBPassword = DefaultDBPassword
	log.Warn().Msg("Using the fixed default database credential; consider manual mode")
	return nil
}

// runSequence executes steps in strict order. With bestEffort false, the
// first failure aborts the run. With bestEffort true, command-class
// failures are logged as warnings and the remaining cleanup steps still
// run; any other class still aborts.
func (c *Controller) runSequence(ctx context.Context, steps []step, bestEffort bool) error {
	c.progress = Progress{Total: len(steps)}

	for i, s := range steps {
		c.progress.Current = i + 1
		ux.Step(c.progress.Current, c.progress.Total, s.name)
		log.Info().
			Int("step", c.progress.Current).
			Int("total", c.progress.Total).
			Str("name", s.name).
			Msg("Starting step")

		start := time.Now()
		output, err := s.fn(ctx)
		duration := time.Since(start)

		if err != nil {
			if lcErr, ok := err.(*Error); ok && lcErr.Step == "" {
				lcErr.WithStep(s.name)
			}
			if out := stepOutput(output, err); out != "" {
				output = out
			}

			if bestEffort && IsCommand(err) {
				c.recordStep(ctx, c.progress.Current, s.name, stores.StepStatusFailed, output, duration)
				ux.Warn(fmt.Sprintf("%s failed, continuing cleanup: %v", s.name, err))
				log.Warn().Err(err).Str("step", s.name).Msg("Step failed, continuing")
				continue
			}

			c.recordStep(ctx, c.progress.Current, s.name, stores.StepStatusFailed, output, duration)
			log.Error().Err(err).Str("step", s.name).Msg("Step failed")
			return err
		}

		c.recordStep(ctx, c.progress.Current, s.name, stores.StepStatusCompleted, output, duration)
		log.Info().
			Str("step", s.name).
			Dur("duration", duration).
			Msg("Step completed")
	}

	return nil
}

// stepOutput prefers the error's captured output over the step's.
func stepOutput(output string, err error) string {
	if e, ok := err.(*Error); ok && e.Output != "" {
		return e.Output
	}
	return output
}

// confirm aborts the sequence as a validation failure when the operator
// declines.
func (c *Controller) confirm(question string) (string, error) {
	ok, err := c.Confirmer.Confirm(question)
	if err != nil {
		return "", NewValidationError("failed to read confirmation", err)
	}
	if !ok {
		return "", NewValidationError("aborted by operator", nil)
	}
	return "confirmed", nil
}

// run executes a command and classifies a non-zero exit as a command-class
// failure.
func (c *Controller) run(ctx context.Context, name string, args ...string) (string, error) {
	res, err := c.Runner.Run(ctx, name, args...)
	if err != nil {
		return "", NewCommandError(fmt.Sprintf("failed to execute %s", name), res.Output, err)
	}
	if !res.Ok() {
		return res.Output, NewCommandError(
			fmt.Sprintf("%s exited %d", res.Command, res.ExitCode), res.Output, nil)
	}
	return res.Output, nil
}

// runShell executes a shell script through the runner with the same
// classification as run.
func (c *Controller) runShell(ctx context.Context, script string) (string, error) {
	res, err := c.Runner.RunShell(ctx, script)
	if err != nil {
		return "", NewCommandError("failed to execute shell command", res.Output, err)
	}
	if !res.Ok() {
		return res.Output, NewCommandError(
			fmt.Sprintf("command exited %d", res.ExitCode), res.Output, nil)
	}
	return res.Output, nil
}

// beginRecord opens a run record. Recorder failures are warnings only.
func (c *Controller) beginRecord(ctx context.Context, req *Request) {
	if c.Recorder == nil {
		return
	}
	if err := c.Recorder.BeginRun(ctx, string(req.Action), req.Version); err != nil {
		log.Warn().Err(err).Msg("Failed to record run start")
	}
}

func (c *Controller) recordStep(ctx context.Context, seq int, name string, status stores.StepStatus, output string, duration time.Duration) {
	if c.Recorder == nil {
		return
	}
	if err := c.Recorder.RecordStep(ctx, seq, name, status, output, duration); err != nil {
		log.Warn().Err(err).Str("step", name).Msg("Failed to record step")
	}
}

func (c *Controller) finishRecord(ctx context.Context, runErr error) {
	if c.Recorder == nil {
		return
	}
	if err := c.Recorder.FinishRun(ctx, runErr); err != nil {
		log.Warn().Err(err).Msg("Failed to record run completion")
	}
}
