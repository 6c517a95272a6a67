package repository

import (
	"context"
	"time"

	"github.com/linskybing/orgflow/internal/domain/approval"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, app *approval.Application) error
	GetApplication(ctx context.Context, groupID, id uint) (*approval.Application, error)
	LockApplication(ctx context.Context, groupID, id uint) (*approval.Application, error)
	ListByApplicant(ctx context.Context, groupID, memberID uint, filter approval.ListFilter) ([]approval.Application, error)
	ListByGroup(ctx context.Context, groupID uint, filter approval.ListFilter) ([]approval.Application, error)
	ListInbox(ctx context.Context, groupID uint, role string) ([]approval.Application, error)
	CountByTemplate(ctx context.Context, templateID uint) (int64, error)
	SaveAssignment(ctx context.Context, a *approval.Assignment, expected approval.AssignmentStatus) error
	ResetAssignment(ctx context.Context, a *approval.Assignment) error
	SaveProgress(ctx context.Context, app *approval.Application, expectedStep int) error
	WithTx(tx *gorm.DB) ApplicationRepo
}

type DBApplicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *DBApplicationRepo {
	return &DBApplicationRepo{
		db: db,
	}
}

func orderedAssignments(db *gorm.DB) *gorm.DB {
	return db.Order("step_order ASC")
}

// CreateApplication inserts the application and its assignments. Related
// template and applicant rows are never written.
func (r *DBApplicationRepo) CreateApplication(ctx context.Context, app *approval.Application) error {
	return r.db.WithContext(ctx).Omit("Template", "Applicant").Create(app).Error
}

func (r *DBApplicationRepo) GetApplication(ctx context.Context, groupID, id uint) (*approval.Application, error) {
	var app approval.Application
	err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Applicant.User").
		Preload("Assignments", orderedAssignments).
		Where("group_id = ?", groupID).
		First(&app, id).Error
	if err != nil {
		return nil, lookupErr(err, "application", id)
	}
	return &app, nil
}

// LockApplication loads the application row FOR UPDATE plus all of its
// assignments. It must run inside a transaction.
func (r *DBApplicationRepo) LockApplication(ctx context.Context, groupID, id uint) (*approval.Application, error) {
	db := r.db.WithContext(ctx)

	var app approval.Application
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_id = ?", groupID).
		First(&app, id).Error
	if err != nil {
		return nil, lookupErr(err, "application", id)
	}

	if err := db.Where("application_id = ?", app.ID).
		Order("step_order ASC").
		Find(&app.Assignments).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func applyFilter(query *gorm.DB, filter approval.ListFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	query = query.Order("created_at DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

func (r *DBApplicationRepo) ListByApplicant(ctx context.Context, groupID, memberID uint, filter approval.ListFilter) ([]approval.Application, error) {
	var apps []approval.Application
	query := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Assignments", orderedAssignments).
		Where("group_id = ? AND applicant_id = ?", groupID, memberID)
	err := applyFilter(query, filter).Find(&apps).Error
	return apps, err
}

func (r *DBApplicationRepo) ListByGroup(ctx context.Context, groupID uint, filter approval.ListFilter) ([]approval.Application, error) {
	var apps []approval.Application
	query := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Applicant.User").
		Preload("Assignments", orderedAssignments).
		Where("group_id = ?", groupID)
	err := applyFilter(query, filter).Find(&apps).Error
	return apps, err
}

// ListInbox returns pending applications whose active step waits on role.
func (r *DBApplicationRepo) ListInbox(ctx context.Context, groupID uint, role string) ([]approval.Application, error) {
	var apps []approval.Application
	err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Applicant.User").
		Preload("Assignments", orderedAssignments).
		Select("approval_applications.*").
		Joins("JOIN approval_assignments aa ON aa.application_id = approval_applications.id AND aa.step_order = approval_applications.current_step").
		Where("approval_applications.group_id = ?", groupID).
		Where("approval_applications.status = ?", approval.StatusPending).
		Where("aa.status = ? AND aa.approver_role = ?", approval.AssignmentInProgress, role).
		Order("approval_applications.created_at ASC").
		Order("approval_applications.id ASC").
		Find(&apps).Error
	return apps, err
}

func (r *DBApplicationRepo) CountByTemplate(ctx context.Context, templateID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&approval.Application{}).
		Where("template_id = ?", templateID).
		Count(&n).Error
	return n, err
}

// SaveAssignment writes the mutable columns of a only if the stored status is
// still expected.
func (r *DBApplicationRepo) SaveAssignment(ctx context.Context, a *approval.Assignment, expected approval.AssignmentStatus) error {
	res := r.db.WithContext(ctx).Model(&approval.Assignment{}).
		Where("id = ? AND status = ?", a.ID, expected).
		Updates(assignmentColumns(a))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return approval.ErrConcurrentUpdate
	}
	return nil
}

// ResetAssignment writes a unconditionally.
func (r *DBApplicationRepo) ResetAssignment(ctx context.Context, a *approval.Assignment) error {
	return r.db.WithContext(ctx).Model(&approval.Assignment{}).
		Where("id = ?", a.ID).
		Updates(assignmentColumns(a)).Error
}

func assignmentColumns(a *approval.Assignment) map[string]any {
	return map[string]any{
		"status":         a.Status,
		"assigned_to_id": a.AssignedToID,
		"acted_at":       a.ActedAt,
		"comment":        a.Comment,
		"updated_at":     time.Now(),
	}
}

// SaveProgress stores status and current step of app, guarded on the row still
// being pending at expectedStep.
func (r *DBApplicationRepo) SaveProgress(ctx context.Context, app *approval.Application, expectedStep int) error {
	res := r.db.WithContext(ctx).Model(&approval.Application{}).
		Where("id = ? AND status = ? AND current_step = ?", app.ID, approval.StatusPending, expectedStep).
		Updates(map[string]any{
			"status":       app.Status,
			"current_step": app.CurrentStep,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return approval.ErrConcurrentUpdate
	}
	return nil
}

func (r *DBApplicationRepo) WithTx(tx *gorm.DB) ApplicationRepo {
	if tx == nil {
		return r
	}
	return &DBApplicationRepo{
		db: tx,
	}
}
