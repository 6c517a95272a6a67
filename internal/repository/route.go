package repository

import (
	"context"

	"github.com/linskybing/orgflow/internal/domain/route"
	"gorm.io/gorm"
)

type RouteRepo interface {
	CreateRoute(ctx context.Context, r *route.ApprovalRoute) error
	GetRoute(ctx context.Context, groupID, id uint) (*route.ApprovalRoute, error)
	ListRoutes(ctx context.Context, groupID uint) ([]route.ApprovalRoute, error)
	RenameRoute(ctx context.Context, groupID, id uint, name string) error
	DeleteRoute(ctx context.Context, groupID, id uint) error
	WithTx(tx *gorm.DB) RouteRepo
}

type DBRouteRepo struct {
	db *gorm.DB
}

func NewRouteRepo(db *gorm.DB) *DBRouteRepo {
	return &DBRouteRepo{
		db: db,
	}
}

func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Order("step_order ASC")
}

// CreateRoute inserts the route together with its steps.
func (r *DBRouteRepo) CreateRoute(ctx context.Context, rt *route.ApprovalRoute) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *DBRouteRepo) GetRoute(ctx context.Context, groupID, id uint) (*route.ApprovalRoute, error) {
	var rt route.ApprovalRoute
	err := r.db.WithContext(ctx).
		Preload("Steps", orderedSteps).
		Where("group_id = ?", groupID).
		First(&rt, id).Error
	if err != nil {
		return nil, lookupErr(err, "route", id)
	}
	return &rt, nil
}

func (r *DBRouteRepo) ListRoutes(ctx context.Context, groupID uint) ([]route.ApprovalRoute, error) {
	var routes []route.ApprovalRoute
	err := r.db.WithContext(ctx).
		Preload("Steps", orderedSteps).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&routes).Error
	return routes, err
}

func (r *DBRouteRepo) RenameRoute(ctx context.Context, groupID, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&route.ApprovalRoute{}).
		Where("id = ? AND group_id = ?", id, groupID).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lookupErr(gorm.ErrRecordNotFound, "route", id)
	}
	return nil
}

// DeleteRoute removes the steps before the route so that databases without
// enforced cascades stay consistent.
func (r *DBRouteRepo) DeleteRoute(ctx context.Context, groupID, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("route_id = ?", id).Delete(&route.RouteStep{}).Error; err != nil {
		return err
	}
	res := db.Where("group_id = ?", groupID).Delete(&route.ApprovalRoute{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lookupErr(gorm.ErrRecordNotFound, "route", id)
	}
	return nil
}

func (r *DBRouteRepo) WithTx(tx *gorm.DB) RouteRepo {
	if tx == nil {
		return r
	}
	return &DBRouteRepo{
		db: tx,
	}
}
