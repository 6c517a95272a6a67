package repository

import (
	"context"
	"testing"

	"github.com/linskybing/orgflow/internal/domain/approval"
	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/route"
	"github.com/linskybing/orgflow/internal/domain/template"
	"github.com/linskybing/orgflow/internal/domain/user"
	"github.com/linskybing/orgflow/internal/testutils"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// seedApplication stores a pending two-step application and returns it.
func seedApplication(t *testing.T, repos *Repos) *approval.Application {
	t.Helper()
	ctx := context.Background()

	g := &group.Group{Name: "Finance"}
	require.NoError(t, repos.Group.CreateGroup(ctx, g))
	u := &user.User{Username: "carol", Password: "x"}
	require.NoError(t, repos.User.CreateUser(ctx, u))
	m := &group.Member{GroupID: g.ID, UserID: u.ID, Role: "EMPLOYEE"}
	require.NoError(t, repos.Member.CreateMember(ctx, m))

	rt := &route.ApprovalRoute{GroupID: g.ID, Name: "R", Steps: []route.RouteStep{
		{StepOrder: 1, ApproverRole: "ACCOUNTANT", RequireAll: true},
		{StepOrder: 2, ApproverRole: "ADMIN", RequireAll: true},
	}}
	require.NoError(t, repos.Route.CreateRoute(ctx, rt))
	tpl := &template.ApprovalTemplate{
		GroupID:  g.ID,
		Name:     "T",
		Fields:   datatypes.JSON(`{"items":[{"id":"a","label":"A","type":"text"}]}`),
		RouteID:  rt.ID,
		IsActive: true,
	}
	require.NoError(t, repos.Template.CreateTemplate(ctx, tpl))

	assignments, first, err := approval.Materialize(rt.Steps)
	require.NoError(t, err)
	app := &approval.Application{
		GroupID:     g.ID,
		TemplateID:  tpl.ID,
		ApplicantID: m.ID,
		Title:       "Taxi",
		Data:        datatypes.JSON(`{"a":""}`),
		Status:      approval.StatusPending,
		CurrentStep: &first,
		Assignments: assignments,
	}
	require.NoError(t, repos.Application.CreateApplication(ctx, app))
	return app
}

func TestLockApplication_LoadsOrderedAssignments(t *testing.T) {
	repos := NewRepositories(testutils.NewTestDB(t))
	app := seedApplication(t, repos)
	ctx := context.Background()

	err := repos.ExecTx(ctx, func(r *Repos) error {
		locked, err := r.Application.LockApplication(ctx, app.GroupID, app.ID)
		require.NoError(t, err)
		require.Len(t, locked.Assignments, 2)
		assert.Equal(t, 1, locked.Assignments[0].StepOrder)
		assert.Equal(t, approval.AssignmentInProgress, locked.Assignments[0].Status)
		return nil
	})
	require.NoError(t, err)

	_, err = repos.Application.LockApplication(ctx, app.GroupID+1, app.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestGuardedWrites_RejectStaleState(t *testing.T) {
	repos := NewRepositories(testutils.NewTestDB(t))
	app := seedApplication(t, repos)
	ctx := context.Background()

	stale, err := repos.Application.GetApplication(ctx, app.GroupID, app.ID)
	require.NoError(t, err)

	// First writer advances the application.
	winner, err := repos.Application.GetApplication(ctx, app.GroupID, app.ID)
	require.NoError(t, err)
	out, err := approval.Transition(winner, approval.ActionApprove, 1, "ACCOUNTANT", nil, winner.CreatedAt)
	require.NoError(t, err)
	require.NoError(t, repos.Application.SaveAssignment(ctx, out.Acted, approval.AssignmentInProgress))
	require.NoError(t, repos.Application.SaveAssignment(ctx, out.Activated, approval.AssignmentWaiting))
	require.NoError(t, repos.Application.SaveProgress(ctx, winner, out.PreviousStep))

	// A second writer working from the old snapshot must lose.
	out, err = approval.Transition(stale, approval.ActionReject, 2, "ACCOUNTANT", nil, stale.CreatedAt)
	require.NoError(t, err)
	assert.ErrorIs(t, repos.Application.SaveAssignment(ctx, out.Acted, approval.AssignmentInProgress), approval.ErrConcurrentUpdate)
	assert.ErrorIs(t, repos.Application.SaveProgress(ctx, stale, out.PreviousStep), approval.ErrConcurrentUpdate)

	final, err := repos.Application.GetApplication(ctx, app.GroupID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, final.Status)
	assert.Equal(t, 2, *final.CurrentStep)
	assert.NoError(t, approval.CheckConsistency(final))
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	repos := NewRepositories(testutils.NewTestDB(t))
	ctx := context.Background()

	err := repos.ExecTx(ctx, func(r *Repos) error {
		require.NoError(t, r.Group.CreateGroup(ctx, &group.Group{Name: "Ghost"}))
		return apperrors.InvalidState("abort")
	})
	assert.EqualError(t, err, "abort")

	u := &user.User{Username: "x", Password: "x"}
	require.NoError(t, repos.User.CreateUser(ctx, u))
	groups, err := repos.Group.ListGroupsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	var count int64
	require.NoError(t, repos.db.Model(&group.Group{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCountsAndInbox(t *testing.T) {
	repos := NewRepositories(testutils.NewTestDB(t))
	app := seedApplication(t, repos)
	ctx := context.Background()

	n, err := repos.Template.CountByRoute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repos.Application.CountByTemplate(ctx, app.TemplateID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	inbox, err := repos.Application.ListInbox(ctx, app.GroupID, "ACCOUNTANT")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Taxi", inbox[0].Title)
	assert.Len(t, inbox[0].Assignments, 2)

	inbox, err = repos.Application.ListInbox(ctx, app.GroupID, "ADMIN")
	require.NoError(t, err)
	assert.Empty(t, inbox)
}
