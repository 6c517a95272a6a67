package repository

import (
	"context"

	"github.com/linskybing/orgflow/internal/domain/attachment"
	"gorm.io/gorm"
)

type AttachmentRepo interface {
	CreateAttachment(ctx context.Context, a *attachment.Attachment) error
	GetAttachment(ctx context.Context, groupID, id uint) (*attachment.Attachment, error)
	WithTx(tx *gorm.DB) AttachmentRepo
}

type DBAttachmentRepo struct {
	db *gorm.DB
}

func NewAttachmentRepo(db *gorm.DB) *DBAttachmentRepo {
	return &DBAttachmentRepo{
		db: db,
	}
}

func (r *DBAttachmentRepo) CreateAttachment(ctx context.Context, a *attachment.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *DBAttachmentRepo) GetAttachment(ctx context.Context, groupID, id uint) (*attachment.Attachment, error) {
	var a attachment.Attachment
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&a, id).Error
	if err != nil {
		return nil, lookupErr(err, "attachment", id)
	}
	return &a, nil
}

func (r *DBAttachmentRepo) WithTx(tx *gorm.DB) AttachmentRepo {
	if tx == nil {
		return r
	}
	return &DBAttachmentRepo{
		db: tx,
	}
}
