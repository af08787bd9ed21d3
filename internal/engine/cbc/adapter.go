// Package cbc implements engine.Solver by running the COIN-OR CBC binary on
// an LP file and reading back its solution file.
package cbc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/engine/lpformat"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/services/schedulemodel"
)

const (
	// DefaultBinary is looked up on PATH when Config.BinaryPath is empty
	DefaultBinary = "cbc"

	modelFile    = "model.lp"
	solutionFile = "solution.txt"

	// outputTail bounds how much solver output is attached to errors
	outputTail = 2048
)

// Runner executes the solver process
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Config holds the settings for the CBC adapter
type Config struct {
	// BinaryPath of the cbc executable
	BinaryPath string

	// TimeLimit passed to cbc as "sec"; zero means no limit
	TimeLimit time.Duration

	// Threads passed to cbc; zero leaves cbc's default
	Threads int

	// WorkDir is the parent for per-solve scratch directories
	WorkDir string

	// Runner overrides process execution, mainly for tests
	Runner Runner
}

// Validate ensures the settings are usable
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.TimeLimit < 0 {
		vb.InvalidField("TimeLimit", "must not be negative")
	}
	errors.ValidateNonNegative("Threads", c.Threads, vb)
	return vb.Build()
}

// Adapter runs one cbc process per Solve call and keeps no state between
// calls, so one Adapter may serve concurrent runs.
type Adapter struct {
	binary    string
	timeLimit time.Duration
	threads   int
	workDir   string
	runner    Runner
}

// NewAdapter creates a CBC solver adapter
func NewAdapter(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	a := &Adapter{
		binary:    cfg.BinaryPath,
		timeLimit: cfg.TimeLimit,
		threads:   cfg.Threads,
		workDir:   cfg.WorkDir,
		runner:    cfg.Runner,
	}
	if a.binary == "" {
		a.binary = DefaultBinary
	}
	if a.runner == nil {
		a.runner = execRunner{}
	}
	return a, nil
}

var _ engine.Solver = (*Adapter)(nil)

// Name returns "cbc"
func (a *Adapter) Name() string {
	return "cbc"
}

// Solve writes the model, runs cbc and parses its solution file
func (a *Adapter) Solve(ctx context.Context, model *schedulemodel.Model) (*engine.Result, error) {
	if model == nil {
		return nil, errors.InvalidArgument("model is required")
	}

	dir, err := os.MkdirTemp(a.workDir, "rpg-trainer-cbc-")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeSolverBackend, "failed to create solver work dir")
	}
	defer func() {
		_ = os.RemoveAll(dir) // nolint:errcheck // scratch space
	}()

	lpPath := filepath.Join(dir, modelFile)
	solPath := filepath.Join(dir, solutionFile)

	names, err := writeModel(lpPath, model)
	if err != nil {
		return nil, err
	}

	args := []string{lpPath}
	if a.timeLimit > 0 {
		args = append(args, "sec", strconv.FormatFloat(a.timeLimit.Seconds(), 'f', -1, 64))
	}
	if a.threads > 0 {
		args = append(args, "threads", strconv.Itoa(a.threads))
	}
	args = append(args, "solve", "solu", solPath)

	start := time.Now()
	out, runErr := a.runner.Run(ctx, a.binary, args...)
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Canceledf("solve canceled after %s", elapsed.Round(time.Millisecond)).
			WithMeta("cause", ctxErr.Error())
	}
	if runErr != nil {
		return nil, errors.WrapWithCodef(runErr, errors.CodeSolverBackend, "%s failed", a.binary).
			WithMeta("output", tail(out))
	}

	f, err := os.Open(solPath)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeSolverBackend, "solver wrote no solution file").
			WithMeta("output", tail(out))
	}
	defer func() {
		_ = f.Close() // nolint:errcheck // read-only file
	}()

	result, err := ParseSolution(f, names.VariableIndex(), len(model.Variables))
	if err != nil {
		return nil, err
	}

	slog.Info("CBC finished",
		"model", model.Name,
		"status", result.Status,
		"objective", result.Objective,
		"variables", len(model.Variables),
		"constraints", len(model.Constraints),
		"elapsed", elapsed,
	)

	return result, nil
}

func writeModel(path string, model *schedulemodel.Model) (*lpformat.Names, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeSolverBackend, "failed to create lp file")
	}

	names, err := lpformat.Write(f, model)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		return nil, errors.WrapWithCode(closeErr, errors.CodeSolverBackend, "failed to close lp file")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to write lp file")
	}
	return names, nil
}

func tail(out []byte) string {
	if len(out) > outputTail {
		return fmt.Sprintf("...%s", out[len(out)-outputTail:])
	}
	return string(out)
}
