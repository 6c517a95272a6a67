package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/linskybing/orgflow/internal/domain/approval"
	"github.com/linskybing/orgflow/internal/domain/formschema"
	"github.com/linskybing/orgflow/internal/repository"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/linskybing/orgflow/pkg/types"
	"github.com/linskybing/orgflow/pkg/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

var ErrCannotView = apperrors.Forbidden("you cannot view this application")

// Now is the clock used for acted_at timestamps.
var Now = func() time.Time {
	return time.Now().UTC()
}

type ApplicationService struct {
	Repos *repository.Repos
}

func NewApplicationService(repos *repository.Repos) *ApplicationService {
	return &ApplicationService{
		Repos: repos,
	}
}

// CreateApplication validates the submission against the template's schema
// and persists the application with one assignment per route step.
func (s *ApplicationService) CreateApplication(ctx context.Context, caller types.Caller, input approval.CreateApplicationDTO) (*approval.Application, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}

	tpl, err := s.Repos.Template.GetTemplate(ctx, caller.GroupID, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, apperrors.NotFound("template", input.TemplateID)
	}
	if tpl.Route == nil {
		return nil, approval.ErrNoSteps
	}

	assignments, firstStep, err := approval.Materialize(tpl.Route.Steps)
	if err != nil {
		return nil, err
	}

	schema, err := formschema.Parse(tpl.Fields)
	if err != nil {
		return nil, schemaValidation(err, true)
	}
	result, err := formschema.ValidateJSON(schema, input.Data)
	if err != nil {
		return nil, schemaValidation(err, false)
	}
	if !result.OK() {
		return nil, apperrors.Validation("", result.Errors...)
	}
	cleaned, err := json.Marshal(result.Cleaned)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to encode form data")
	}

	app := &approval.Application{
		GroupID:     caller.GroupID,
		TemplateID:  tpl.ID,
		ApplicantID: caller.MemberID,
		Title:       title,
		Data:        datatypes.JSON(cleaned),
		Status:      approval.StatusPending,
		CurrentStep: &firstStep,
		Assignments: assignments,
	}
	err = s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		return r.Application.CreateApplication(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("application_id", app.ID).
		Uint("template_id", app.TemplateID).
		Uint("applicant_id", app.ApplicantID).
		Int("steps", len(app.Assignments)).
		Msg("Application submitted")
	utils.LogAuditAsync(caller, "create", "approval_application", fmt.Sprintf("application_id=%d", app.ID), nil, app, "", s.Repos.Audit)

	return s.Repos.Application.GetApplication(ctx, caller.GroupID, app.ID)
}

// Act approves or rejects the current step of an application. The row is
// locked for the whole unit of work and every write is guarded on the state
// that was read, so of two concurrent calls at most one succeeds.
func (s *ApplicationService) Act(ctx context.Context, caller types.Caller, id uint, input approval.ActDTO) (*approval.Application, error) {
	var before approval.Application
	var after *approval.Application
	var outcome *approval.Outcome
	err := s.Repos.ExecTx(ctx, func(r *repository.Repos) error {
		app, err := r.Application.LockApplication(ctx, caller.GroupID, id)
		if err != nil {
			return err
		}
		before = *app
		before.Assignments = append([]approval.Assignment(nil), app.Assignments...)

		outcome, err = approval.Transition(app, input.Action, caller.MemberID, caller.Role, input.Comment, Now())
		if err != nil {
			return err
		}

		if err := r.Application.SaveAssignment(ctx, outcome.Acted, approval.AssignmentInProgress); err != nil {
			return err
		}
		if outcome.Activated != nil {
			if err := r.Application.SaveAssignment(ctx, outcome.Activated, approval.AssignmentWaiting); err != nil {
				return err
			}
		}
		for _, a := range outcome.Reset {
			if err := r.Application.ResetAssignment(ctx, a); err != nil {
				return err
			}
		}
		if err := r.Application.SaveProgress(ctx, app, outcome.PreviousStep); err != nil {
			return err
		}
		after = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := log.Info().
		Uint("application_id", id).
		Str("action", string(input.Action)).
		Int("step", outcome.PreviousStep).
		Uint("member_id", caller.MemberID).
		Str("status", string(after.Status))
	if after.CurrentStep != nil {
		event = event.Int("current_step", *after.CurrentStep)
	}
	event.Msg("Application step processed")
	utils.LogAuditAsync(caller, string(input.Action), "approval_application", fmt.Sprintf("application_id=%d", id), before, after, "", s.Repos.Audit)

	return s.Repos.Application.GetApplication(ctx, caller.GroupID, id)
}

// GetApplication is visible to the applicant, administrators and members whose
// role approves one of the application's steps.
func (s *ApplicationService) GetApplication(ctx context.Context, caller types.Caller, id uint) (*approval.Application, error) {
	app, err := s.Repos.Application.GetApplication(ctx, caller.GroupID, id)
	if err != nil {
		return nil, err
	}
	if !canView(caller, app) {
		return nil, ErrCannotView
	}
	return app, nil
}

func canView(caller types.Caller, app *approval.Application) bool {
	if app.ApplicantID == caller.MemberID || requireAdmin(caller) == nil {
		return true
	}
	for _, a := range app.Assignments {
		if a.ApproverRole == caller.Role {
			return true
		}
	}
	return false
}

func (s *ApplicationService) ListMyApplications(ctx context.Context, caller types.Caller, filter approval.ListFilter) ([]approval.Application, error) {
	return s.Repos.Application.ListByApplicant(ctx, caller.GroupID, caller.MemberID, filter)
}

func (s *ApplicationService) ListGroupApplications(ctx context.Context, caller types.Caller, filter approval.ListFilter) ([]approval.Application, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.Repos.Application.ListByGroup(ctx, caller.GroupID, filter)
}

// ListInbox returns the pending applications waiting on the caller's role.
func (s *ApplicationService) ListInbox(ctx context.Context, caller types.Caller) ([]approval.Application, error) {
	return s.Repos.Application.ListInbox(ctx, caller.GroupID, caller.Role)
}
