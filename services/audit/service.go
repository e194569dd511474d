package audit

import (
	"context"
	"time"

	logRepo "clinicore/database/repository/logs"
	"clinicore/models"

	"go.uber.org/zap"
)

// Service writes and reads the back-office audit trail. Record is
// fire-and-forget: a failed insert is logged and never propagated, so a trail
// outage cannot fail the operation being audited.
type Service interface {
	Record(ctx context.Context, entry models.AuditLog)
	List(ctx context.Context, f logRepo.Filter) ([]models.AuditLog, int64, error)
	Stats(ctx context.Context) (*models.LogStats, error)
}

// DefaultService implements Service over the log repository.
type DefaultService struct {
	repo logRepo.LogRepository
}

// NewService returns the audit service.
func NewService(repo logRepo.LogRepository) *DefaultService {
	return &DefaultService{repo: repo}
}

// Record appends one trail entry. The insert runs on a detached context so it
// survives the request's cancellation.
func (s *DefaultService) Record(ctx context.Context, entry models.AuditLog) {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Insert(writeCtx, entry); err != nil {
		zap.L().Error("audit insert failed",
			zap.String("action", entry.Action),
			zap.String("entityId", entry.EntityID),
			zap.Error(err))
	}
}

// List returns a page of trail entries plus the total match count.
func (s *DefaultService) List(ctx context.Context, f logRepo.Filter) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, f)
}

// Stats returns trail volume aggregates for the dashboard.
func (s *DefaultService) Stats(ctx context.Context) (*models.LogStats, error) {
	return s.repo.Stats(ctx)
}
