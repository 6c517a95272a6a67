package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/domain/attachment"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/internal/storage"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
	"github.com/rs/zerolog/log"
)

type AttachmentService struct {
	Repos *repository.Repos
	Store storage.Driver
}

func NewAttachmentService(repos *repository.Repos, store storage.Driver) *AttachmentService {
	return &AttachmentService{
		Repos: repos,
		Store: store,
	}
}

// Upload stores the body and records its metadata. The returned object key
// is the value a file field of a form carries.
func (s *AttachmentService) Upload(ctx context.Context, caller types.Caller, filename string, body io.Reader, size int64, contentType string) (*attachment.Attachment, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, apperrors.Validation("file name is required")
	}
	if size <= 0 {
		return nil, apperrors.Validation("file is empty")
	}
	if limit := config.MaxUploadMB << 20; size > limit {
		return nil, apperrors.Validation(fmt.Sprintf("file exceeds the %d MB limit", config.MaxUploadMB))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	if err := s.Store.Save(ctx, key, body, size, contentType); err != nil {
		return nil, apperrors.Internal(err, "failed to store attachment")
	}

	att := &attachment.Attachment{
		GroupID:     caller.GroupID,
		MemberID:    caller.MemberID,
		ObjectKey:   key,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.Repos.Attachment.CreateAttachment(ctx, att); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to clean up orphaned attachment")
		}
		return nil, err
	}

	utils.LogAuditAsync(caller, "create", "attachment", fmt.Sprintf("attachment_id=%d", att.ID), nil, att, "", s.Repos.Audit)
	return att, nil
}

// Download returns the stored body of an attachment of the caller's group.
// The caller must close the reader.
func (s *AttachmentService) Download(ctx context.Context, caller types.Caller, id uint) (*attachment.Attachment, io.ReadCloser, error) {
	att, err := s.Repos.Attachment.GetAttachment(ctx, caller.GroupID, id)
	if err != nil {
		return nil, nil, err
	}
	body, _, err := s.Store.Get(ctx, att.ObjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, apperrors.NotFound("attachment", id)
		}
		return nil, nil, apperrors.Internal(err, "failed to read attachment")
	}
	return att, body, nil
}
