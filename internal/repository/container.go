package repository

import (
	"context"
	"errors"

	"github.com/linskybing/orgflow/pkg/apperrors"
	"gorm.io/gorm"
)

type Repos struct {
	Route       RouteRepo
	Template    TemplateRepo
	Application ApplicationRepo
	Group       GroupRepo
	Member      MemberRepo
	User        UserRepo
	Audit       AuditRepo
	Attachment  AttachmentRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Route:       NewRouteRepo(db),
		Template:    NewTemplateRepo(db),
		Application: NewApplicationRepo(db),
		Group:       NewGroupRepo(db),
		Member:      NewMemberRepo(db),
		User:        NewUserRepo(db),
		Audit:       NewAuditRepo(db),
		Attachment:  NewAttachmentRepo(db),
		db:          db,
	}
}

func (r *Repos) Begin() *gorm.DB {
	return r.db.Begin()
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Route:       r.Route.WithTx(tx),
		Template:    r.Template.WithTx(tx),
		Application: r.Application.WithTx(tx),
		Group:       r.Group.WithTx(tx),
		Member:      r.Member.WithTx(tx),
		User:        r.User.WithTx(tx),
		Audit:       r.Audit.WithTx(tx),
		Attachment:  r.Attachment.WithTx(tx),
		db:          tx,
	}
}

// ExecTx runs fn in one database transaction. Any error returned by fn rolls
// the whole unit back.
func (r *Repos) ExecTx(ctx context.Context, fn func(*Repos) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// lookupErr translates a missing row into a NotFound error for entity.
func lookupErr(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return err
}
