package application

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/linskybing/orgflow/internal/domain/route"
	"github.com/linskybing/orgflow/internal/domain/template"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steps(roles ...string) []route.StepInputDTO {
	out := make([]route.StepInputDTO, len(roles))
	for i, r := range roles {
		out[i] = route.StepInputDTO{ApproverRole: r}
	}
	return out
}

func TestCreateRoute_Success(t *testing.T) {
	e := newEnv(t)

	rt, err := e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{
		Name: " Expense ",
		Steps: []route.StepInputDTO{
			{ApproverRole: " ACCOUNTANT "},
			{ApproverRole: "ADMIN", RequireAll: ptr(false), Conditions: json.RawMessage(`{"amount_over": 1000}`)},
		},
	})
	require.NoError(t, err)

	got, err := e.svc.Route.GetRoute(e.ctx, e.employee, rt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Expense", got.Name)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, 1, got.Steps[0].StepOrder)
	assert.Equal(t, "ACCOUNTANT", got.Steps[0].ApproverRole)
	assert.True(t, got.Steps[0].RequireAll)
	assert.Equal(t, 2, got.Steps[1].StepOrder)
	assert.False(t, got.Steps[1].RequireAll)
	assert.JSONEq(t, `{"amount_over": 1000}`, string(got.Steps[1].Conditions))

	calls := e.audit.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "approval_route", calls[0].ResourceType)
}

func TestCreateRoute_AggregatesProblems(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{
		Name:  "Broken",
		Steps: steps("", "ADMIN", "  "),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "steps[0].approver_role is required; steps[2].approver_role is required", err.Error())

	_, err = e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{Name: "Empty"})
	assert.EqualError(t, err, "at least one step is required")

	routes, err := e.svc.Route.ListRoutes(e.ctx, e.admin)
	require.NoError(t, err)
	assert.Empty(t, routes)
	assert.Empty(t, e.audit.all())
}

func TestCreateRoute_NonAdminForbidden(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Route.CreateRoute(e.ctx, e.accountant, route.CreateRouteDTO{Name: "R", Steps: steps("ADMIN")})
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestListRoutes_ScopedToGroup(t *testing.T) {
	e := newEnv(t)
	other := e.addMember(t, e.newGroup(t, "Sales"), "dave", "ADMIN")

	_, err := e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{Name: "Mine", Steps: steps("ADMIN")})
	require.NoError(t, err)
	theirs, err := e.svc.Route.CreateRoute(e.ctx, other, route.CreateRouteDTO{Name: "Theirs", Steps: steps("ADMIN")})
	require.NoError(t, err)

	routes, err := e.svc.Route.ListRoutes(e.ctx, e.admin)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Mine", routes[0].Name)

	_, err = e.svc.Route.GetRoute(e.ctx, e.admin, theirs.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpdateRoute_RenamesOnly(t *testing.T) {
	e := newEnv(t)
	rt, err := e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{Name: "Old", Steps: steps("A", "B")})
	require.NoError(t, err)

	updated, err := e.svc.Route.UpdateRoute(e.ctx, e.admin, rt.ID, route.UpdateRouteDTO{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Len(t, updated.Steps, 2)

	_, err = e.svc.Route.UpdateRoute(e.ctx, e.admin, 9999, route.UpdateRouteDTO{Name: "X"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteRoute(t *testing.T) {
	e := newEnv(t)
	rt, err := e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{Name: "R", Steps: steps("ADMIN")})
	require.NoError(t, err)

	tpl, err := e.svc.Template.CreateTemplate(e.ctx, e.admin, template.CreateTemplateDTO{
		Name:    "T",
		Fields:  json.RawMessage(`{"items":[{"id":"a","label":"A","type":"text"}]}`),
		RouteID: rt.ID,
	})
	require.NoError(t, err)

	err = e.svc.Route.DeleteRoute(e.ctx, e.admin, rt.ID)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	assert.EqualError(t, err, "route is used by 1 template(s)")

	require.NoError(t, e.svc.Template.DeleteTemplate(e.ctx, e.admin, tpl.ID))
	require.NoError(t, e.svc.Route.DeleteRoute(e.ctx, e.admin, rt.ID))

	_, err = e.svc.Route.GetRoute(e.ctx, e.admin, rt.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = e.svc.Route.DeleteRoute(e.ctx, e.accountant, rt.ID)
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestCreateRoute_ApproverRoleTooLong(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{
		Name:  "Long",
		Steps: steps("ADMIN", strings.Repeat("R", 51)),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.EqualError(t, err, "steps[1].approver_role must be at most 50 characters")

	_, err = e.svc.Route.CreateRoute(e.ctx, e.admin, route.CreateRouteDTO{
		Name:  "Fits",
		Steps: steps(strings.Repeat("R", 50)),
	})
	assert.NoError(t, err)
}
