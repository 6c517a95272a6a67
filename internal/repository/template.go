package repository

import (
	"context"

	"github.com/linskybing/orgflow/internal/domain/template"
	"gorm.io/gorm"
)

type TemplateRepo interface {
	CreateTemplate(ctx context.Context, t *template.ApprovalTemplate) error
	GetTemplate(ctx context.Context, groupID, id uint) (*template.ApprovalTemplate, error)
	ListTemplates(ctx context.Context, groupID uint, activeOnly bool) ([]template.ApprovalTemplate, error)
	UpdateTemplate(ctx context.Context, t *template.ApprovalTemplate) error
	DeleteTemplate(ctx context.Context, groupID, id uint) error
	CountByRoute(ctx context.Context, routeID uint) (int64, error)
	WithTx(tx *gorm.DB) TemplateRepo
}

type DBTemplateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) *DBTemplateRepo {
	return &DBTemplateRepo{
		db: db,
	}
}

func (r *DBTemplateRepo) CreateTemplate(ctx context.Context, t *template.ApprovalTemplate) error {
	return r.db.WithContext(ctx).Omit("Route").Create(t).Error
}

func (r *DBTemplateRepo) GetTemplate(ctx context.Context, groupID, id uint) (*template.ApprovalTemplate, error) {
	var t template.ApprovalTemplate
	err := r.db.WithContext(ctx).
		Preload("Route.Steps", orderedSteps).
		Where("group_id = ?", groupID).
		First(&t, id).Error
	if err != nil {
		return nil, lookupErr(err, "template", id)
	}
	return &t, nil
}

func (r *DBTemplateRepo) ListTemplates(ctx context.Context, groupID uint, activeOnly bool) ([]template.ApprovalTemplate, error) {
	var templates []template.ApprovalTemplate
	query := r.db.WithContext(ctx).Where("group_id = ?", groupID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("id ASC").Find(&templates).Error
	return templates, err
}

// UpdateTemplate writes every column including zero values such as
// is_active = false.
func (r *DBTemplateRepo) UpdateTemplate(ctx context.Context, t *template.ApprovalTemplate) error {
	return r.db.WithContext(ctx).Omit("Route").Save(t).Error
}

func (r *DBTemplateRepo) DeleteTemplate(ctx context.Context, groupID, id uint) error {
	res := r.db.WithContext(ctx).Where("group_id = ?", groupID).Delete(&template.ApprovalTemplate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lookupErr(gorm.ErrRecordNotFound, "template", id)
	}
	return nil
}

func (r *DBTemplateRepo) CountByRoute(ctx context.Context, routeID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&template.ApprovalTemplate{}).
		Where("route_id = ?", routeID).
		Count(&n).Error
	return n, err
}

func (r *DBTemplateRepo) WithTx(tx *gorm.DB) TemplateRepo {
	if tx == nil {
		return r
	}
	return &DBTemplateRepo{
		db: tx,
	}
}
