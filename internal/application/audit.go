package application

import (
	"context"

	"github.com/linskybing/orgflow/internal/domain/audit"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/types"
)

type AuditService struct {
	Repos *repository.Repos
}

func NewAuditService(repos *repository.Repos) *AuditService {
	return &AuditService{
		Repos: repos,
	}
}

// QueryAuditLogs is restricted to administrators and to the caller's group.
func (s *AuditService) QueryAuditLogs(ctx context.Context, caller types.Caller, params repository.AuditQueryParams) ([]audit.AuditLog, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	params.GroupID = caller.GroupID
	return s.Repos.Audit.GetAuditLogs(ctx, params)
}

func (s *AuditService) CleanupOldLogs(ctx context.Context, days int) (int64, error) {
	return s.Repos.Audit.DeleteOldAuditLogs(ctx, days)
}
