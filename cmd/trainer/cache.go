package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-trainer/internal/errors"
	"github.com/KirkDiggler/rpg-trainer/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-trainer/internal/redis"
	schedulereport "github.com/KirkDiggler/rpg-trainer/internal/repositories/schedule_report"
)

var cacheFlags struct {
	corruptOnly bool
	fingerprint string
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the Redis report cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove cached reports",
	Long: `Purge removes every cached schedule report, or with --corrupt-only just
the entries that no longer decode.`,
	RunE: runCachePurge,
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Remove the cached report for one model fingerprint",
	RunE:  runCacheEvict,
}

func init() {
	cachePurgeCmd.Flags().BoolVar(&cacheFlags.corruptOnly, "corrupt-only", false, "only remove entries that fail to decode")
	cacheEvictCmd.Flags().StringVar(&cacheFlags.fingerprint, "fingerprint", "", "model fingerprint printed by solve --json")

	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheEvictCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCache() (schedulereport.Repository, func(), error) {
	if settings.RedisAddr == "" {
		return nil, nil, errors.InvalidArgument("--redis-addr or TRAINER_REDIS_ADDR is required")
	}

	client, err := redis.NewClient(settings.RedisAddr, nil)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}

	repo, err := schedulereport.NewRedisRepository(&schedulereport.Config{
		Client: client,
		Clock:  clock.New(),
		TTL:    settings.CacheTTL,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return repo, cleanup, nil
}

func runCachePurge(cmd *cobra.Command, _ []string) error {
	repo, cleanup, err := openCache()
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := repo.Purge(cmd.Context(), schedulereport.PurgeInput{CorruptOnly: cacheFlags.corruptOnly})
	if err != nil {
		return err
	}

	cmd.Printf("Scanned %d cached reports, deleted %d\n", out.Scanned, out.Deleted)
	return nil
}

func runCacheEvict(cmd *cobra.Command, _ []string) error {
	repo, cleanup, err := openCache()
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := repo.Delete(cmd.Context(), schedulereport.DeleteInput{Fingerprint: cacheFlags.fingerprint})
	if err != nil {
		return err
	}
	if !out.Deleted {
		return errors.NotFoundf("no cached report for %s", cacheFlags.fingerprint)
	}

	cmd.Printf("Evicted %s\n", cacheFlags.fingerprint)
	return nil
}
