package application

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/linskybing/orgflow/internal/domain/group"
	"github.com/linskybing/orgflow/internal/domain/route"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type RouteService struct {
	Repos *repository.Repos
}

func NewRouteService(repos *repository.Repos) *RouteService {
	return &RouteService{
		Repos: repos,
	}
}

// buildSteps numbers the input steps 1..N in input order and collects every
// problem found on the way.
func buildSteps(inputs []route.StepInputDTO) ([]route.RouteStep, []string) {
	var problems []string
	if len(inputs) == 0 {
		problems = append(problems, "at least one step is required")
	}

	steps := make([]route.RouteStep, 0, len(inputs))
	for i, in := range inputs {
		role := strings.TrimSpace(in.ApproverRole)
		if role == "" {
			problems = append(problems, fmt.Sprintf("steps[%d].approver_role is required", i))
		} else if utf8.RuneCountInString(role) > group.MaxRoleLength {
			problems = append(problems, fmt.Sprintf("steps[%d].approver_role must be at most %d characters", i, group.MaxRoleLength))
		}

		requireAll := true
		if in.RequireAll != nil {
			requireAll = *in.RequireAll
		}

		var conditions datatypes.JSON
		if raw := bytes.TrimSpace(in.Conditions); len(raw) > 0 && string(raw) != "null" {
			conditions = datatypes.JSON(raw)
		}

		steps = append(steps, route.RouteStep{
			StepOrder:    i + 1,
			ApproverRole: role,
			RequireAll:   requireAll,
			Conditions:   conditions,
		})
	}
	return steps, problems
}

func (s *RouteService) CreateRoute(ctx context.Context, caller types.Caller, input route.CreateRouteDTO) (*route.ApprovalRoute, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	steps, problems := buildSteps(input.Steps)
	if name == "" {
		problems = append([]string{"name is required"}, problems...)
	}
	if len(problems) > 0 {
		return nil, apperrors.Validation("", problems...)
	}

	rt := &route.ApprovalRoute{
		GroupID: caller.GroupID,
		Name:    name,
		Steps:   steps,
	}
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		return r.Route.CreateRoute(ctx, rt)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("route_id", rt.ID).Uint("group_id", rt.GroupID).Int("steps", len(rt.Steps)).Msg("Approval route created")
	utils.LogAuditAsync(caller, "create", "approval_route", fmt.Sprintf("route_id=%d", rt.ID), nil, rt, "", s.Repos.Audit)
	return rt, nil
}

func (s *RouteService) ListRoutes(ctx context.Context, caller types.Caller) ([]route.ApprovalRoute, error) {
	return s.Repos.Route.ListRoutes(ctx, caller.GroupID)
}

func (s *RouteService) GetRoute(ctx context.Context, caller types.Caller, id uint) (*route.ApprovalRoute, error) {
	return s.Repos.Route.GetRoute(ctx, caller.GroupID, id)
}

// UpdateRoute renames a route. Steps are immutable once created because
// in-flight applications hold assignments copied from them.
func (s *RouteService) UpdateRoute(ctx context.Context, caller types.Caller, id uint, input route.UpdateRouteDTO) (*route.ApprovalRoute, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}

	var before, after *route.ApprovalRoute
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		var err error
		if before, err = r.Route.GetRoute(ctx, caller.GroupID, id); err != nil {
			return err
		}
		if err = r.Route.RenameRoute(ctx, caller.GroupID, id, name); err != nil {
			return err
		}
		after, err = r.Route.GetRoute(ctx, caller.GroupID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.LogAuditAsync(caller, "update", "approval_route", fmt.Sprintf("route_id=%d", id), before, after, "", s.Repos.Audit)
	return after, nil
}

func (s *RouteService) DeleteRoute(ctx context.Context, caller types.Caller, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	var existing *route.ApprovalRoute
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		var err error
		if existing, err = r.Route.GetRoute(ctx, caller.GroupID, id); err != nil {
			return err
		}
		inUse, err := r.Template.CountByRoute(ctx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return apperrors.InvalidState(fmt.Sprintf("route is used by %d template(s)", inUse))
		}
		return r.Route.DeleteRoute(ctx, caller.GroupID, id)
	})
	if err != nil {
		return err
	}

	log.Info().Uint("route_id", id).Uint("group_id", caller.GroupID).Msg("Approval route deleted")
	utils.LogAuditAsync(caller, "delete", "approval_route", fmt.Sprintf("route_id=%d", id), existing, nil, "", s.Repos.Audit)
	return nil
}
