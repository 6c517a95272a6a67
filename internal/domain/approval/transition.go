package approval

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/linskybing/orgflow/internal/domain/route"
	"github.com/linskybing/orgflow/pkg/apperrors"
)

var (
	ErrNoSteps           = apperrors.InvalidState("approval route has no steps")
	ErrNotProcessable    = apperrors.InvalidState("this application cannot be processed")
	ErrStepNotActionable = apperrors.InvalidState("the current step is not awaiting action")
	ErrRoleMismatch      = apperrors.Forbidden("your role cannot act on the current step")
	ErrInvalidAction     = apperrors.Validation("action must be approve or reject")
	ErrConcurrentUpdate  = apperrors.InvalidState("the application was changed by another request")
)

// Materialize builds one assignment per route step in step order. The first
// step starts IN_PROGRESS, every other step WAITING. It also returns the
// step order the new application starts at.
func Materialize(steps []route.RouteStep) ([]Assignment, int, error) {
	if len(steps) == 0 {
		return nil, 0, ErrNoSteps
	}

	ordered := make([]route.RouteStep, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StepOrder < ordered[j].StepOrder
	})

	assignments := make([]Assignment, 0, len(ordered))
	for i, s := range ordered {
		status := AssignmentWaiting
		if i == 0 {
			status = AssignmentInProgress
		}
		assignments = append(assignments, Assignment{
			StepID:       s.ID,
			StepOrder:    s.StepOrder,
			ApproverRole: s.ApproverRole,
			Status:       status,
		})
	}
	return assignments, ordered[0].StepOrder, nil
}

// Outcome lists the assignments a transition changed.
type Outcome struct {
	PreviousStep int
	Acted        *Assignment
	Activated    *Assignment
	Reset        []*Assignment
}

// Changed returns every assignment that has to be written back.
func (o *Outcome) Changed() []*Assignment {
	out := []*Assignment{o.Acted}
	if o.Activated != nil {
		out = append(out, o.Activated)
	}
	return append(out, o.Reset...)
}

// Transition applies action to app in memory. Preconditions are checked in a
// fixed order: the application must be pending, its current assignment must be
// IN_PROGRESS, and actorRole must equal that assignment's approver role.
// app.Assignments must hold every assignment of the application.
func Transition(app *Application, action Action, actorMemberID uint, actorRole string, comment *string, now time.Time) (*Outcome, error) {
	if !action.Valid() {
		return nil, ErrInvalidAction
	}
	if app.Status != StatusPending || app.CurrentStep == nil {
		return nil, ErrNotProcessable
	}
	current := app.Current()
	if current == nil || current.Status != AssignmentInProgress {
		return nil, ErrStepNotActionable
	}
	if actorRole != current.ApproverRole {
		return nil, ErrRoleMismatch
	}

	out := &Outcome{PreviousStep: current.StepOrder, Acted: current}
	actor := actorMemberID
	acted := now
	current.AssignedToID = &actor
	current.ActedAt = &acted
	current.Comment = normalizeComment(comment)

	switch action {
	case ActionApprove:
		current.Status = AssignmentApproved
		next := nextAfter(app.Assignments, current.StepOrder)
		if next == nil {
			app.CurrentStep = nil
			app.Status = StatusApproved
			break
		}
		next.Status = AssignmentInProgress
		step := next.StepOrder
		app.CurrentStep = &step
		out.Activated = next

	case ActionReject:
		current.Status = AssignmentRejected
		for i := range app.Assignments {
			a := &app.Assignments[i]
			if a.StepOrder <= current.StepOrder {
				continue
			}
			a.Status = AssignmentWaiting
			a.AssignedToID = nil
			a.ActedAt = nil
			a.Comment = nil
			out.Reset = append(out.Reset, a)
		}
		app.CurrentStep = nil
		app.Status = StatusRejected
	}

	return out, nil
}

// nextAfter returns the assignment with the smallest step order greater than
// stepOrder.
func nextAfter(assignments []Assignment, stepOrder int) *Assignment {
	var next *Assignment
	for i := range assignments {
		a := &assignments[i]
		if a.StepOrder <= stepOrder {
			continue
		}
		if next == nil || a.StepOrder < next.StepOrder {
			next = a
		}
	}
	return next
}

func normalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	c := strings.TrimSpace(*comment)
	if c == "" {
		return nil
	}
	return &c
}

// CheckConsistency verifies the status/currentStep invariant of app against its
// assignments.
func CheckConsistency(app *Application) error {
	inProgress := 0
	for _, a := range app.Assignments {
		if a.Status == AssignmentInProgress {
			inProgress++
		}
	}

	switch app.Status {
	case StatusPending:
		if app.CurrentStep == nil {
			return fmt.Errorf("application %d is pending without a current step", app.ID)
		}
		current := app.Current()
		if current == nil || current.Status != AssignmentInProgress || inProgress != 1 {
			return fmt.Errorf("application %d must have exactly one IN_PROGRESS assignment at step %d", app.ID, *app.CurrentStep)
		}
	case StatusApproved, StatusRejected:
		if app.CurrentStep != nil {
			return fmt.Errorf("terminal application %d still has current step %d", app.ID, *app.CurrentStep)
		}
		if inProgress != 0 {
			return fmt.Errorf("terminal application %d has %d IN_PROGRESS assignments", app.ID, inProgress)
		}
	default:
		return fmt.Errorf("application %d has unknown status %q", app.ID, app.Status)
	}
	return nil
}
