package main

import (
	"log/slog"

	"github.com/KirkDiggler/rpg-trainer/internal/engine"
	"github.com/KirkDiggler/rpg-trainer/internal/engine/cbc"
	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/orchestrators/schedule"
	"github.com/KirkDiggler/rpg-trainer/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-trainer/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-trainer/internal/redis"
	schedulereport "github.com/KirkDiggler/rpg-trainer/internal/repositories/schedule_report"
)

// newSolver is swapped in tests that run without a CBC binary
var newSolver = func(s *Settings) (engine.Solver, error) {
	return cbc.NewAdapter(&cbc.Config{
		BinaryPath: s.CBCPath,
		TimeLimit:  s.SolverTimeLimit,
		Threads:    s.SolverThreads,
	})
}

// newOrchestrator wires the solver and, when configured, the Redis report
// cache. The returned func releases the cache connection.
func newOrchestrator(s *Settings, useCache bool) (schedule.Service, func(), error) {
	solver, err := newSolver(s)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create solver")
	}

	cfg := &schedule.Config{
		Solver:      solver,
		IDGenerator: idgen.NewUUID("run"),
		CacheTTL:    s.CacheTTL,
	}
	cleanup := func() {}

	if useCache && s.RedisAddr != "" {
		client, err := redis.NewClient(s.RedisAddr, nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create redis client")
		}
		cleanup = func() {
			_ = client.Close()
		}

		cache, err := schedulereport.NewRedisRepository(&schedulereport.Config{
			Client: client,
			Clock:  clock.New(),
			TTL:    s.CacheTTL,
		})
		if err != nil {
			cleanup()
			return nil, nil, errors.Wrap(err, "failed to create report cache")
		}
		cfg.Cache = cache
		slog.Debug("Report cache enabled", "addr", s.RedisAddr)
	}

	svc, err := schedule.NewOrchestrator(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
