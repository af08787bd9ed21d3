package main

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
)

// Settings are the process-wide options. Each can come from the environment
// or a flag; an explicitly set flag wins.
type Settings struct {
	CBCPath         string        `env:"TRAINER_CBC_PATH" envDefault:"cbc"`
	SolverTimeLimit time.Duration `env:"TRAINER_SOLVER_TIME_LIMIT"`
	SolverThreads   int           `env:"TRAINER_SOLVER_THREADS"`
	RedisAddr       string        `env:"TRAINER_REDIS_ADDR"`
	CacheTTL        time.Duration `env:"TRAINER_CACHE_TTL" envDefault:"24h"`
	LogMode         string        `env:"TRAINER_LOG_MODE" envDefault:"dev"`
	Verbose         bool          `env:"TRAINER_VERBOSE"`
}

// flag names
const (
	flagCBCPath   = "cbc-path"
	flagTimeLimit = "time-limit"
	flagThreads   = "threads"
	flagRedisAddr = "redis-addr"
	flagCacheTTL  = "cache-ttl"
	flagLogMode   = "log-mode"
	flagVerbose   = "verbose"
)

// RegisterFlags binds the settings to persistent flags
func (s *Settings) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.CBCPath, flagCBCPath, "cbc", "path to the CBC solver binary (TRAINER_CBC_PATH)")
	fs.DurationVar(&s.SolverTimeLimit, flagTimeLimit, 0, "solver time limit, 0 for none (TRAINER_SOLVER_TIME_LIMIT)")
	fs.IntVar(&s.SolverThreads, flagThreads, 0, "solver threads, 0 for the solver default (TRAINER_SOLVER_THREADS)")
	fs.StringVar(&s.RedisAddr, flagRedisAddr, "", "redis address for the report cache, empty disables it (TRAINER_REDIS_ADDR)")
	fs.DurationVar(&s.CacheTTL, flagCacheTTL, 24*time.Hour, "how long cached reports live (TRAINER_CACHE_TTL)")
	fs.StringVar(&s.LogMode, flagLogMode, "dev", "log format: dev or prod (TRAINER_LOG_MODE)")
	fs.BoolVarP(&s.Verbose, flagVerbose, "v", false, "enable debug logging (TRAINER_VERBOSE)")
}

// LoadEnv reads the environment (or environ, when non-nil) and keeps any
// value whose flag was set explicitly
func (s *Settings) LoadEnv(environ map[string]string, fs *pflag.FlagSet) error {
	var fromEnv Settings

	var err error
	if environ != nil {
		err = env.ParseWithOptions(&fromEnv, env.Options{Environment: environ})
	} else {
		err = env.Parse(&fromEnv)
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	changed := func(name string) bool {
		return fs != nil && fs.Changed(name)
	}

	if !changed(flagCBCPath) {
		s.CBCPath = fromEnv.CBCPath
	}
	if !changed(flagTimeLimit) {
		s.SolverTimeLimit = fromEnv.SolverTimeLimit
	}
	if !changed(flagThreads) {
		s.SolverThreads = fromEnv.SolverThreads
	}
	if !changed(flagRedisAddr) {
		s.RedisAddr = fromEnv.RedisAddr
	}
	if !changed(flagCacheTTL) {
		s.CacheTTL = fromEnv.CacheTTL
	}
	if !changed(flagLogMode) {
		s.LogMode = fromEnv.LogMode
	}
	if !changed(flagVerbose) {
		s.Verbose = fromEnv.Verbose
	}

	return s.Validate()
}

// Validate rejects settings no component could use
func (s *Settings) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("CBCPath", s.CBCPath, vb)
	if s.SolverTimeLimit < 0 {
		vb.InvalidField("SolverTimeLimit", "must not be negative")
	}
	errors.ValidateNonNegative("SolverThreads", s.SolverThreads, vb)
	if s.CacheTTL < 0 {
		vb.InvalidField("CacheTTL", "must not be negative")
	}
	return vb.Build()
}
