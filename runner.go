// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package swiftcc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"shanhu.io/misc/errcode"
)

// Stage is the position of a command in a source file's compile sequence.
type Stage int

// Stages.
const (
	StageNone    Stage = 0 // link steps and ad hoc commands
	StageCompile Stage = 1 // source to intermediate; assembly to object
	StageLower   Stage = 2 // intermediate to object
)

func (s Stage) String() string {
	if s == StageNone {
		return "none"
	}
	return strconv.Itoa(int(s))
}

// ParseStage parses a stage filter. An empty string means no filter.
func ParseStage(s string) (Stage, error) {
	if s == "" {
		return StageNone, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return StageNone, errcode.InvalidArgf("invalid stage %q", s)
	}
	return Stage(n), nil
}

// LaunchError is returned when a command cannot be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %q: %s", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// IsLaunchFailure checks if the error is a LaunchError.
func IsLaunchFailure(err error) bool {
	var e *LaunchError
	return errors.As(err, &e)
}

// InterruptError is returned when the run is cancelled while a command
// is running. It always aborts the pipeline.
type InterruptError struct {
	Command string
	Err     error
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("%q interrupted: %s", e.Command, e.Err)
}

func (e *InterruptError) Unwrap() error { return e.Err }

// IsInterrupted checks if the error is an InterruptError.
func IsInterrupted(err error) bool {
	var e *InterruptError
	return errors.As(err, &e)
}

// ExitError is returned in strict mode when a command exits with a
// non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exit with code: %d", e.Command, e.Code)
}

// Step is the record of one command.
type Step struct {
	Seq      int
	Stage    Stage
	Command  string
	Skipped  bool          `json:",omitempty"`
	Exit     int           `json:",omitempty"`
	Err      string        `json:",omitempty"`
	Start    time.Time     `json:",omitempty"`
	Duration time.Duration `json:",omitempty"`
}

// StepRecorder saves step records.
type StepRecorder interface {
	Record(step *Step) error
}

// RunnerOptions are the options of a Runner.
type RunnerOptions struct {
	// Stage, when not StageNone, only runs the commands of this stage.
	// Commands of other stages, including link steps, are skipped.
	Stage Stage

	// Verbose echoes commands before running them when >= 1.
	Verbose int

	// StrictExit treats a non-zero exit status as a failure. By default
	// only commands that fail to start are failures.
	StrictExit bool
}

// Runner runs commands one at a time.
type Runner struct {
	exec      Executor
	opts      RunnerOptions
	recorders []StepRecorder
	steps     []*Step
}

// NewRunner creates a runner that runs commands with exec.
func NewRunner(exec Executor, opts *RunnerOptions) *Runner {
	r := &Runner{exec: exec}
	if opts != nil {
		r.opts = *opts
	}
	return r
}

// AddRecorder adds a recorder that saves every step.
func (r *Runner) AddRecorder(rec StepRecorder) {
	r.recorders = append(r.recorders, rec)
}

// Steps returns all steps run or skipped so far.
func (r *Runner) Steps() []*Step { return r.steps }

func (r *Runner) record(step *Step) {
	step.Seq = len(r.steps) + 1
	r.steps = append(r.steps, step)
	for _, rec := range r.recorders {
		if err := rec.Record(step); err != nil {
			log.Warn().Err(err).Int("seq", step.Seq).Msg("record step")
		}
	}
}

// Run runs the command as a step of the given stage. A skipped command
// counts as a success.
func (r *Runner) Run(ctx context.Context, command string, stage Stage) error {
	if r.opts.Stage != StageNone && r.opts.Stage != stage {
		log.Info().Msgf("skipping stage %s", stage)
		r.record(&Step{Stage: stage, Command: command, Skipped: true})
		return nil
	}

	if r.opts.Verbose > 0 {
		log.Info().Msgf("executing command: %s", command)
	}

	step := &Step{Stage: stage, Command: command, Start: time.Now()}
	exit, err := r.exec.Exec(ctx, command)
	step.Duration = time.Since(step.Start)
	step.Exit = exit
	if ctxErr := ctx.Err(); ctxErr != nil {
		step.Err = ctxErr.Error()
		r.record(step)
		log.Error().Str("command", command).Msg("interrupted")
		return &InterruptError{Command: command, Err: ctxErr}
	}
	if err != nil {
		step.Err = err.Error()
		r.record(step)
		log.Error().Err(err).Str("command", command).Msg("launch failed")
		return &LaunchError{Command: command, Err: err}
	}
	r.record(step)

	if exit != 0 {
		if r.opts.StrictExit {
			return &ExitError{Command: command, Code: exit}
		}
		log.Warn().Int("exit", exit).Str("command", command).Msg(
			"command failed; continuing",
		)
	}
	return nil
}
