package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/linskybing/orgflow/internal/domain/formschema"
	"github.com/linskybing/orgflow/internal/domain/template"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type TemplateService struct {
	Repos *repository.Repos
}

func NewTemplateService(repos *repository.Repos) *TemplateService {
	return &TemplateService{
		Repos: repos,
	}
}

// canonicalFields parses raw and returns the re-serialized schema.
func canonicalFields(raw []byte) (datatypes.JSON, error) {
	schema, err := formschema.Parse(raw)
	if err != nil {
		return nil, schemaValidation(err, true)
	}
	canonical, err := schema.JSON()
	if err != nil {
		return nil, apperrors.Internal(err, "failed to encode form schema")
	}
	return datatypes.JSON(canonical), nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, caller types.Caller, input template.CreateTemplateDTO) (*template.ApprovalTemplate, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	fields, err := canonicalFields(input.Fields)
	if err != nil {
		return nil, err
	}

	tpl := &template.ApprovalTemplate{
		GroupID:  caller.GroupID,
		Name:     name,
		Fields:   fields,
		RouteID:  input.RouteID,
		IsActive: true,
	}
	if input.Description != nil {
		tpl.Description = *input.Description
	}

	err = s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		if _, err := r.Route.GetRoute(ctx, caller.GroupID, input.RouteID); err != nil {
			return err
		}
		return r.Template.CreateTemplate(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("template_id", tpl.ID).Uint("route_id", tpl.RouteID).Msg("Approval template created")
	utils.LogAuditAsync(caller, "create", "approval_template", fmt.Sprintf("template_id=%d", tpl.ID), nil, tpl, "", s.Repos.Audit)
	return tpl, nil
}

// ListTemplates returns the group's templates. Only administrators may include
// inactive ones.
func (s *TemplateService) ListTemplates(ctx context.Context, caller types.Caller, includeInactive bool) ([]template.ApprovalTemplate, error) {
	if includeInactive {
		if err := requireAdmin(caller); err != nil {
			return nil, err
		}
	}
	return s.Repos.Template.ListTemplates(ctx, caller.GroupID, !includeInactive)
}

// GetTemplate hides inactive templates from non-administrators.
func (s *TemplateService) GetTemplate(ctx context.Context, caller types.Caller, id uint) (*template.ApprovalTemplate, error) {
	tpl, err := s.Repos.Template.GetTemplate(ctx, caller.GroupID, id)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive && requireAdmin(caller) != nil {
		return nil, apperrors.NotFound("template", id)
	}
	return tpl, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, caller types.Caller, id uint, input template.UpdateTemplateDTO) (*template.ApprovalTemplate, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var fields datatypes.JSON
	if len(input.Fields) > 0 {
		var err error
		if fields, err = canonicalFields(input.Fields); err != nil {
			return nil, err
		}
	}

	var before template.ApprovalTemplate
	var tpl *template.ApprovalTemplate
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		var err error
		if tpl, err = r.Template.GetTemplate(ctx, caller.GroupID, id); err != nil {
			return err
		}
		before = *tpl

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperrors.Validation("name is required")
			}
			tpl.Name = name
		}
		if input.Description != nil {
			tpl.Description = *input.Description
		}
		if fields != nil {
			tpl.Fields = fields
		}
		if input.IsActive != nil {
			tpl.IsActive = *input.IsActive
		}
		if input.RouteID != nil && *input.RouteID != tpl.RouteID {
			rt, err := r.Route.GetRoute(ctx, caller.GroupID, *input.RouteID)
			if err != nil {
				return err
			}
			tpl.RouteID = rt.ID
			tpl.Route = rt
		}
		return r.Template.UpdateTemplate(ctx, tpl)
	})
	if err != nil {
		return nil, err
	}

	utils.LogAuditAsync(caller, "update", "approval_template", fmt.Sprintf("template_id=%d", id), before, tpl, "", s.Repos.Audit)
	return tpl, nil
}

// DeleteTemplate refuses while any application still references the template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, caller types.Caller, id uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	var existing *template.ApprovalTemplate
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		var err error
		if existing, err = r.Template.GetTemplate(ctx, caller.GroupID, id); err != nil {
			return err
		}
		used, err := r.Application.CountByTemplate(ctx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return apperrors.InvalidState(fmt.Sprintf("template is used by %d application(s); deactivate it instead", used))
		}
		return r.Template.DeleteTemplate(ctx, caller.GroupID, id)
	})
	if err != nil {
		return err
	}

	utils.LogAuditAsync(caller, "delete", "approval_template", fmt.Sprintf("template_id=%d", id), existing, nil, "", s.Repos.Audit)
	return nil
}
