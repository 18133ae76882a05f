package tasks

import (
	"context"
)

// ScheduledTaskFunc is the standard signature for scheduled tasks. The
// context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks initializes and returns the map of registered scheduled
// tasks. Map keys match the task names in the scheduler config section.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks["sql_maintenance"] = newSQLMaintenanceTask(deps)
	tasks["weather_alerts"] = newWeatherAlertTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
