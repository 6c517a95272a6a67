package application

import (
	"context"
	"sync"
	"testing"

	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/user"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/internal/storage"
	"github.com/linskybing/orgflow/internal/testutils"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
	"github.com/stretchr/testify/require"
)

type auditCall struct {
	Action       string
	ResourceType string
	ResourceID   string
	Before       any
	After        any
}

type recorder struct {
	mu    sync.Mutex
	calls []auditCall
}

func (r *recorder) all() []auditCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]auditCall(nil), r.calls...)
}

type env struct {
	ctx   context.Context
	svc   *Services
	repos *repository.Repos
	audit *recorder

	groupID    uint
	admin      types.Caller
	accountant types.Caller
	employee   types.Caller
}

// newEnv builds services over a fresh sqlite database with one group holding
// an ADMIN, an ACCOUNTANT and an EMPLOYEE member. Audit writes are captured
// synchronously instead of hitting the database.
func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutils.NewTestDB(t)
	repos := repository.NewRepositories(db)
	store, err := storage.NewLocalDriver(t.TempDir())
	require.NoError(t, err)

	rec := &recorder{}
	orig := utils.LogAuditAsync
	utils.LogAuditAsync = func(_ types.Caller, action, resourceType, resourceID string, oldData, newData any, _ string, _ repository.AuditRepo) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.calls = append(rec.calls, auditCall{action, resourceType, resourceID, oldData, newData})
	}
	t.Cleanup(func() { utils.LogAuditAsync = orig })

	e := &env{
		ctx:   context.Background(),
		svc:   New(repos, store),
		repos: repos,
		audit: rec,
	}
	e.groupID = e.newGroup(t, "Finance")
	e.admin = e.addMember(t, e.groupID, "alice", "ADMIN")
	e.accountant = e.addMember(t, e.groupID, "bob", "ACCOUNTANT")
	e.employee = e.addMember(t, e.groupID, "carol", "EMPLOYEE")
	return e
}

func (e *env) newGroup(t *testing.T, name string) uint {
	t.Helper()
	g := &group.Group{Name: name}
	require.NoError(t, e.repos.Group.CreateGroup(e.ctx, g))
	return g.ID
}

func (e *env) addMember(t *testing.T, groupID uint, username, role string) types.Caller {
	t.Helper()
	u := &user.User{Username: username, Password: "unused"}
	require.NoError(t, e.repos.User.CreateUser(e.ctx, u))
	m := &group.Member{GroupID: groupID, UserID: u.ID, Role: role}
	require.NoError(t, e.repos.Member.CreateMember(e.ctx, m))
	return types.Caller{UserID: u.ID, MemberID: m.ID, GroupID: groupID, Role: role}
}

func ptr[T any](v T) *T { return &v }
