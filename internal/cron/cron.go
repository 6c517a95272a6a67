package cron

import (
	"context"
	"time"

	"github.com/linskybing/orgflow/internal/application"
	"github.com/rs/zerolog/log"
)

const cleanupInterval = 24 * time.Hour

// StartCleanupTask prunes audit logs older than retentionDays once at start
// and then every 24 hours until ctx is cancelled. A non-positive retention
// disables the task.
func StartCleanupTask(ctx context.Context, auditService *application.AuditService, retentionDays int) {
	if retentionDays <= 0 {
		log.Info().Msg("Audit log cleanup disabled")
		return
	}

	go func() {
		log.Info().Int("retention_days", retentionDays).Msg("Starting background cleanup task")
		runCleanup(ctx, auditService, retentionDays)

		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCleanup(ctx, auditService, retentionDays)
			}
		}
	}()
}

func runCleanup(ctx context.Context, auditService *application.AuditService, retentionDays int) {
	deleted, err := auditService.CleanupOldLogs(ctx, retentionDays)
	if err != nil {
		log.Error().Err(err).Msg("Failed to cleanup old audit logs")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("Audit log cleanup completed")
}
