package activitylogs

import (
	"context"
	"fmt"
	"time"

	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
)

// DefaultRetention keeps payment activity for 90 days.
const DefaultRetention = 90 * 24 * time.Hour

type CleanupService struct {
	log       *ActivityLog
	logger    *logging.Logger
	retention time.Duration
	now       func() time.Time
}

func NewCleanupService(log *ActivityLog, logger *logging.Logger, retention time.Duration) *CleanupService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &CleanupService{
		log:       log,
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
}

// Cleanup deletes entries older than the retention window. It matches the
// scheduler's task signature.
func (s *CleanupService) Cleanup(ctx context.Context) error {
	threshold := s.now().Add(-s.retention)
	n, err := s.log.store.DeleteActivityLogsBefore(ctx, threshold)
	if err != nil {
		return fmt.Errorf("delete activity logs: %w", err)
	}
	if n > 0 {
		s.logger.Info(fmt.Sprintf("removed %d activity log entries older than %s", n, threshold.Format(time.RFC3339)))
	}
	return nil
}
