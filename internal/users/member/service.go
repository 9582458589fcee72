// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member

import (
	"context"
	"log/slog"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
	"github.com/leoFagundes/breakfast-budget-club/pkg/slice"
)

// Service runs member administration workflows.
type Service struct {
	userRepository auth.UserRepository
	recorder       WorkflowRecorder
	now            func() time.Time
}

// NewService constructs a [Service]. recorder may be nil.
func NewService(users auth.UserRepository, recorder WorkflowRecorder) *Service {
	return &Service{
		userRepository: users,
		recorder:       recorder,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

/*
List returns every member with the actor's per-row capabilities.

Returns:
  - *Snapshot: the member list
  - err: Unauthorized for an unknown actor, 403 without admin-area access
*/
func (service *Service) List(context context.Context, actorID string) (*Snapshot, error) {
	actor, err := service.actor(context, actorID)
	if err != nil {
		return nil, err
	}

	if decision := sec.Check(actor.Role, sec.ActionViewAdminArea, sec.Target{}); !decision.Allowed {
		return nil, decision.Err()
	}

	return service.snapshot(context, actor)
}

/*
ChangeRole is the Role Editor Workflow.

# Flow
 1. The requested role must be one of owner, admin or guest.
 2. Actor and target are loaded from the store.
 3. The permission matrix decides. A denial carries a reason-specific code.
 4. The role and updated_at are persisted.
 5. The member list is reloaded and returned.
*/
func (service *Service) ChangeRole(context context.Context, actorID, targetID, role string) (*Snapshot, error) {
	newRole, ok := sec.ParseRole(role)
	if !ok {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldRole,
			Message: "Must be one of: owner, admin, guest",
		})
	}

	actor, err := service.actor(context, actorID)
	if err != nil {
		return nil, err
	}

	target, err := service.userRepository.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context).With(
		slog.String("target_id", target.ID),
		slog.String("from_role", target.Role.String()),
		slog.String("to_role", newRole.String()),
	)

	decision := sec.Check(actor.Role, sec.ActionChangeRole, sec.Target{Role: target.Role, NewRole: newRole})
	if !decision.Allowed {
		logger.Info("role_change_denied", slog.String("reason", string(decision.Reason)))
		service.record(WorkflowChangeRole, "denied")
		return nil, decision.Err()
	}

	if err := service.userRepository.UpdateRole(context, target.ID, newRole, service.now()); err != nil {
		service.record(WorkflowChangeRole, "error")
		return nil, err
	}

	logger.Info("role_changed")
	service.record(WorkflowChangeRole, "allowed")

	if target.ID == actor.ID {
		actor.Role = newRole
	}

	return service.snapshot(context, actor)
}

// Delete removes a member profile. Only owners may do this.
func (service *Service) Delete(context context.Context, actorID, targetID string) (*Snapshot, error) {
	actor, err := service.actor(context, actorID)
	if err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context).With(slog.String("target_id", targetID))

	if decision := sec.Check(actor.Role, sec.ActionDeleteUser, sec.Target{}); !decision.Allowed {
		logger.Info("user_delete_denied", slog.String("reason", string(decision.Reason)))
		service.record(WorkflowDeleteUser, "denied")
		return nil, decision.Err()
	}

	if err := service.userRepository.Delete(context, targetID); err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			service.record(WorkflowDeleteUser, "error")
		}
		return nil, err
	}

	logger.Info("user_deleted")
	service.record(WorkflowDeleteUser, "allowed")

	return service.snapshot(context, actor)
}

// actor loads the acting member. A missing profile is treated as signed out.
func (service *Service) actor(context context.Context, actorID string) (*auth.User, error) {
	actor, err := service.userRepository.FindByID(context, actorID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Authentication required")
		}
		return nil, err
	}
	return actor, nil
}

// snapshot reloads the full member list.
func (service *Service) snapshot(context context.Context, actor *auth.User) (*Snapshot, error) {
	users, err := service.userRepository.List(context)
	if err != nil {
		return nil, err
	}

	rows := slice.Map(users, func(user *auth.User) Row { return newRow(actor.Role, user) })

	return &Snapshot{ActorID: actor.ID, ActorRole: actor.Role, Users: rows}, nil
}

func (service *Service) record(workflow, outcome string) {
	if service.recorder != nil {
		service.recorder.WorkflowOutcome(workflow, outcome)
	}
}
