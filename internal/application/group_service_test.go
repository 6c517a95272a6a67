package application

import (
	"strings"
	"testing"

	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/user"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroup_CreatorBecomesAdmin(t *testing.T) {
	e := newEnv(t)
	u := &user.User{Username: "frank", Password: "x"}
	require.NoError(t, e.repos.User.CreateUser(e.ctx, u))

	grp, err := e.svc.Group.CreateGroup(e.ctx, types.Caller{UserID: u.ID}, group.GroupCreateDTO{Name: "Legal"})
	require.NoError(t, err)

	m, err := e.repos.Member.GetMember(e.ctx, grp.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", m.Role)

	groups, err := e.svc.Group.ListMyGroups(e.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Legal", groups[0].Name)
}

func TestAddMember(t *testing.T) {
	e := newEnv(t)
	u := &user.User{Username: "gina", Password: "x"}
	require.NoError(t, e.repos.User.CreateUser(e.ctx, u))

	m, err := e.svc.Group.AddMember(e.ctx, e.admin, e.groupID, group.MemberInputDTO{UserID: u.ID, Role: "ACCOUNTANT"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	_, err = e.svc.Group.AddMember(e.ctx, e.admin, e.groupID, group.MemberInputDTO{UserID: u.ID, Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = e.svc.Group.AddMember(e.ctx, e.accountant, e.groupID, group.MemberInputDTO{UserID: u.ID, Role: "ADMIN"})
	assert.ErrorIs(t, err, ErrAdminOnly)

	_, err = e.svc.Group.AddMember(e.ctx, e.admin, e.groupID, group.MemberInputDTO{UserID: 999, Role: "ADMIN"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = e.svc.Group.AddMember(e.ctx, e.admin, e.groupID+1, group.MemberInputDTO{UserID: u.ID, Role: "ADMIN"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	members, err := e.svc.Group.ListMembers(e.ctx, e.employee, e.groupID)
	require.NoError(t, err)
	assert.Len(t, members, 4)
	assert.Equal(t, "alice", members[0].User.Username)
}

func TestAddMember_RoleTooLong(t *testing.T) {
	e := newEnv(t)
	u := &user.User{Username: "hank", Password: "x"}
	require.NoError(t, e.repos.User.CreateUser(e.ctx, u))

	_, err := e.svc.Group.AddMember(e.ctx, e.admin, e.groupID, group.MemberInputDTO{UserID: u.ID, Role: strings.Repeat("R", 51)})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.EqualError(t, err, "role must be at most 50 characters")

	_, err = e.repos.Member.GetMember(e.ctx, e.groupID, u.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
