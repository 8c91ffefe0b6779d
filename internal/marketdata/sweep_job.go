package marketdata

import "github.com/rs/zerolog"

// SweepJob evicts expired cache entries on a schedule.
type SweepJob struct {
	cache *Cache
	log   zerolog.Logger
}

// NewSweepJob creates a cache eviction job for the scheduler.
func NewSweepJob(cache *Cache, log zerolog.Logger) *SweepJob {
	return &SweepJob{
		cache: cache,
		log:   log.With().Str("job", "cache_sweep").Logger(),
	}
}

// Name returns the job name for scheduler logging
func (j *SweepJob) Name() string {
	return "cache_sweep"
}

// Run evicts expired entries
func (j *SweepJob) Run() error {
	evicted := j.cache.Sweep()
	if evicted > 0 {
		j.log.Info().Int("evicted", evicted).Int("remaining", j.cache.Len()).Msg("Cache sweep complete")
	}
	return nil
}
