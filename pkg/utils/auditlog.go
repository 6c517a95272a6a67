package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/linskybing/orgflow/internal/domain/audit"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/rs/zerolog/log"
)

const auditWriteTimeout = 5 * time.Second

// LogAuditAsync records an audit entry in the background. It is called after
// the mutation committed; failures are logged and never reach the caller.
var LogAuditAsync = func(caller types.Caller, action, resourceType, resourceID string, oldData, newData any, msg string, repo repository.AuditRepo) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := LogAudit(ctx, caller, action, resourceType, resourceID, oldData, newData, msg, repo); err != nil {
			log.Warn().Err(err).
				Str("action", action).
				Str("resource_type", resourceType).
				Str("resource_id", resourceID).
				Msg("Failed to write audit log")
		}
	}()
}

var LogAudit = func(
	ctx context.Context,
	caller types.Caller,
	action string,
	resourceType string,
	resourceID string,
	before any,
	after any,
	description string,
	repo repository.AuditRepo,
) error {
	var oldData, newData []byte
	var err error

	if before != nil {
		oldData, err = json.Marshal(before)
		if err != nil {
			log.Warn().Err(err).Msg("Audit marshal oldData error")
		}
	}
	if after != nil {
		newData, err = json.Marshal(after)
		if err != nil {
			log.Warn().Err(err).Msg("Audit marshal newData error")
		}
	}

	auditLog := &audit.AuditLog{
		UserID:       caller.UserID,
		GroupID:      caller.GroupID,
		MemberID:     caller.MemberID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldData:      oldData,
		NewData:      newData,
		IPAddress:    caller.IP,
		UserAgent:    caller.UserAgent,
		Description:  description,
	}

	return repo.CreateAuditLog(ctx, auditLog)
}
