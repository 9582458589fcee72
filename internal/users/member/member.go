// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package member implements the Role Editor Workflow and member administration.

Every mutation is checked against the permission matrix, persisted, and then
answered with a freshly reloaded [Snapshot] of all members. Callers never patch
a local copy.
*/
package member

import (
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
)

// Row is one member as seen by the acting user.
type Row struct {
	*auth.User

	// CanChangeRole is true when at least one role may be assigned.
	CanChangeRole   bool           `json:"can_change_role"`
	AssignableRoles []sec.UserRole `json:"assignable_roles"`
	CanDelete       bool           `json:"can_delete"`
}

// Snapshot is the reloaded member list.
type Snapshot struct {
	ActorID   string       `json:"actor_id"`
	ActorRole sec.UserRole `json:"actor_role"`
	Users     []Row        `json:"users"`
}

// WorkflowRecorder counts workflow outcomes.
type WorkflowRecorder interface {
	WorkflowOutcome(workflow, outcome string)
}

// Workflow names reported to the [WorkflowRecorder].
const (
	WorkflowChangeRole = "change_role"
	WorkflowDeleteUser = "delete_user"
)

// newRow computes the capabilities actor has over user.
func newRow(actor sec.UserRole, user *auth.User) Row {
	assignable := sec.AssignableRoles(actor, user.Role)
	if assignable == nil {
		assignable = []sec.UserRole{}
	}

	return Row{
		User:            user,
		CanChangeRole:   len(assignable) > 0,
		AssignableRoles: assignable,
		CanDelete:       sec.CanPerform(actor, sec.ActionDeleteUser, sec.Target{Role: user.Role}),
	}
}
