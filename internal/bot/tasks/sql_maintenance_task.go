package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask creates the scheduled task that compacts the farmer
// database. Profiles change rarely but the interaction log only grows, so a
// periodic VACUUM keeps the file size in check.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Compacting farmer database...")
		start := time.Now()

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Farmer database compaction failed",
				"error", err, "duration", time.Since(start))
			return fmt.Errorf("database compaction failed: %w", err)
		}

		log.InfoContext(ctx, "Farmer database compacted", "duration", time.Since(start))
		return nil
	}
}
