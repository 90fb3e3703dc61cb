package backup

import (
	"context"
	"time"

	"github.com/dondinetwork/go-dondi/pkg/logging"
)

// Scheduler executes backups at a regular interval.
type Scheduler struct {
	interval time.Duration
	backuper *Backuper

	// done is called after every backup attempt.
	done func(BackupResult, error)
}

// NewScheduler creates a new backup scheduler.
func NewScheduler(interval time.Duration, backuper *Backuper) *Scheduler {
	return &Scheduler{
		interval: interval,
		backuper: backuper,
		done:     func(BackupResult, error) {},
	}
}

// Run takes a backup every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log := logging.Component("backup")
	log.Info().Dur("interval", s.interval).Msg("starting backup scheduler")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("closing backup scheduler")
			return
		case <-ticker.C:
		}

		result, err := s.backuper.Backup(ctx)
		s.done(result, err)
		if err != nil {
			log.Error().Err(err).Msg("backup failed")
			continue
		}
		log.Info().
			Str("path", result.Path).
			Int64("elapsed_time", result.ElapsedTime.Milliseconds()).
			Int64("elapsed_time_vacuum", result.VacuumElapsedTime.Milliseconds()).
			Int64("elapsed_time_compression", result.CompressionElapsedTime.Milliseconds()).
			Int64("size", result.Size).
			Int64("size_vacuum", result.SizeAfterVacuum).
			Int64("size_compression", result.SizeAfterCompression).
			Strs("pruned", result.Pruned).
			Msg("backup succeeded")
	}
}
