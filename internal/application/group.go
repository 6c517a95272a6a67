package application

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
)

var ErrAlreadyMember = apperrors.Validation("user is already a member of this group")

type GroupService struct {
	Repos *repository.Repos
}

func NewGroupService(repos *repository.Repos) *GroupService {
	return &GroupService{
		Repos: repos,
	}
}

// CreateGroup creates a group and makes its creator a member holding the
// first configured admin role.
func (s *GroupService) CreateGroup(ctx context.Context, caller types.Caller, input group.GroupCreateDTO) (*group.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if len(config.AdminRoles) == 0 {
		return nil, apperrors.Internal(fmt.Errorf("ADMIN_ROLES is empty"), "no admin role configured")
	}

	grp := &group.Group{Name: name}
	if input.Description != nil {
		grp.Description = *input.Description
	}

	var owner *group.Member
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		if err := r.Group.CreateGroup(ctx, grp); err != nil {
			return err
		}
		owner = &group.Member{GroupID: grp.ID, UserID: caller.UserID, Role: config.AdminRoles[0]}
		return r.Member.CreateMember(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	caller.GroupID = grp.ID
	caller.MemberID = owner.ID
	utils.LogAuditAsync(caller, "create", "group", fmt.Sprintf("group_id=%d", grp.ID), nil, grp, "", s.Repos.Audit)
	return grp, nil
}

func (s *GroupService) ListMyGroups(ctx context.Context, userID uint) ([]group.Group, error) {
	return s.Repos.Group.ListGroupsByUser(ctx, userID)
}

func sameGroup(caller types.Caller, groupID uint) error {
	if caller.GroupID != groupID {
		return apperrors.Forbidden("permission denied for this group")
	}
	return nil
}

func (s *GroupService) AddMember(ctx context.Context, caller types.Caller, groupID uint, input group.MemberInputDTO) (*group.Member, error) {
	if err := sameGroup(caller, groupID); err != nil {
		return nil, err
	}
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		return nil, apperrors.Validation("role is required")
	}
	if utf8.RuneCountInString(role) > group.MaxRoleLength {
		return nil, apperrors.Validation(fmt.Sprintf("role must be at most %d characters", group.MaxRoleLength))
	}

	member := &group.Member{GroupID: groupID, UserID: input.UserID, Role: role}
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		if _, err := r.User.GetUserByID(ctx, input.UserID); err != nil {
			return err
		}
		_, err := r.Member.GetMember(ctx, groupID, input.UserID)
		if err == nil {
			return ErrAlreadyMember
		}
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			return err
		}
		return r.Member.CreateMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	utils.LogAuditAsync(caller, "create", "group_member", fmt.Sprintf("member_id=%d", member.ID), nil, member, "", s.Repos.Audit)
	return member, nil
}

func (s *GroupService) ListMembers(ctx context.Context, caller types.Caller, groupID uint) ([]group.Member, error) {
	if err := sameGroup(caller, groupID); err != nil {
		return nil, err
	}
	return s.Repos.Member.ListMembers(ctx, groupID)
}
