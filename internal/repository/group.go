package repository

import (
	"context"

	"github.com/linskybing/orgflow/internal/domain/group"
	"gorm.io/gorm"
)

//go:generate mockgen -source=group.go -destination=mock/group.go -package=mock

type GroupRepo interface {
	CreateGroup(ctx context.Context, g *group.Group) error
	GetGroupByID(ctx context.Context, id uint) (*group.Group, error)
	ListGroupsByUser(ctx context.Context, userID uint) ([]group.Group, error)
	WithTx(tx *gorm.DB) GroupRepo
}

type DBGroupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) *DBGroupRepo {
	return &DBGroupRepo{
		db: db,
	}
}

func (r *DBGroupRepo) CreateGroup(ctx context.Context, g *group.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *DBGroupRepo) GetGroupByID(ctx context.Context, id uint) (*group.Group, error) {
	var g group.Group
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, lookupErr(err, "group", id)
	}
	return &g, nil
}

func (r *DBGroupRepo) ListGroupsByUser(ctx context.Context, userID uint) ([]group.Group, error) {
	var groups []group.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.id ASC").
		Find(&groups).Error
	return groups, err
}

func (r *DBGroupRepo) WithTx(tx *gorm.DB) GroupRepo {
	if tx == nil {
		return r
	}
	return &DBGroupRepo{
		db: tx,
	}
}

type MemberRepo interface {
	CreateMember(ctx context.Context, member *group.Member) error
	GetMember(ctx context.Context, groupID, userID uint) (*group.Member, error)
	ListMembers(ctx context.Context, groupID uint) ([]group.Member, error)
	WithTx(tx *gorm.DB) MemberRepo
}

type DBMemberRepo struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) *DBMemberRepo {
	return &DBMemberRepo{
		db: db,
	}
}

func (r *DBMemberRepo) CreateMember(ctx context.Context, m *group.Member) error {
	return r.db.WithContext(ctx).Omit("User").Create(m).Error
}

// GetMember returns the membership of userID in groupID.
func (r *DBMemberRepo) GetMember(ctx context.Context, groupID, userID uint) (*group.Member, error) {
	var m group.Member
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&m).Error
	if err != nil {
		return nil, lookupErr(err, "member", userID)
	}
	return &m, nil
}

func (r *DBMemberRepo) ListMembers(ctx context.Context, groupID uint) ([]group.Member, error) {
	var members []group.Member
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

func (r *DBMemberRepo) WithTx(tx *gorm.DB) MemberRepo {
	if tx == nil {
		return r
	}
	return &DBMemberRepo{
		db: tx,
	}
}
