// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/member"
)

type recorder struct {
	outcomes []string
}

func (r *recorder) WorkflowOutcome(workflow, outcome string) {
	r.outcomes = append(r.outcomes, workflow+":"+outcome)
}

type fixture struct {
	users    *auth.DocumentUserRepository
	recorder *recorder
	service  *member.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := auth.NewUserRepository(docstore.NewMemoryStore(auth.UniqueFields()...))
	rec := &recorder{}
	f := &fixture{users: users, recorder: rec, service: member.NewService(users, rec)}

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for index, user := range []*auth.User{
		{ID: "owner", Name: "Olga", Email: "olga@example.com", Role: sec.RoleOwner},
		{ID: "admin", Name: "Ari", Email: "ari@example.com", Role: sec.RoleAdmin},
		{ID: "admin2", Name: "Alex", Email: "alex@example.com", Role: sec.RoleAdmin},
		{ID: "guest", Name: "Gil", Email: "gil@example.com", Role: sec.RoleGuest},
	} {
		user.CreatedAt = base.Add(time.Duration(index) * time.Minute)
		require.NoError(t, users.Create(context.Background(), user))
	}
	return f
}

func (f *fixture) role(t *testing.T, id string) sec.UserRole {
	t.Helper()
	user, err := f.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return user.Role
}

/*
TestChangeRole_AdminRules walks the admin branch of the matrix through the workflow.
*/
func TestChangeRole_AdminRules(t *testing.T) {
	tests := []struct {
		name   string
		actor  string
		target string
		role   string
		code   string
	}{
		{"admin promotes guest to admin", "admin", "guest", "admin", ""},
		{"admin keeps guest a guest", "admin", "guest", "guest", ""},
		{"admin cannot grant owner", "admin", "guest", "owner", "ROLE_OWNER_PROMOTION"},
		{"admin cannot touch another admin", "admin", "admin2", "guest", "ROLE_GUESTS_ONLY"},
		{"admin cannot demote owner", "admin", "owner", "guest", "ROLE_GUESTS_ONLY"},
		{"guest cannot change roles", "guest", "guest", "admin", "ROLE_NOT_PERMITTED"},
		{"owner grants owner", "owner", "admin", "owner", ""},
		{"owner demotes admin", "owner", "admin2", "guest", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before := f.role(t, tt.target)

			snapshot, err := f.service.ChangeRole(context.Background(), tt.actor, tt.target, tt.role)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
				assert.Nil(t, snapshot)
				assert.Equal(t, before, f.role(t, tt.target))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, sec.UserRole(tt.role), f.role(t, tt.target))

			// The snapshot is the reloaded list, not a patched copy.
			require.Len(t, snapshot.Users, 4)
			for _, row := range snapshot.Users {
				if row.ID == tt.target {
					assert.Equal(t, sec.UserRole(tt.role), row.Role)
					require.NotNil(t, row.UpdatedAt)
				}
			}
		})
	}
}

/*
TestChangeRole_DistinctMessages gives each denial its own message.
*/
func TestChangeRole_DistinctMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, guestsOnly := f.service.ChangeRole(ctx, "admin", "admin2", "guest")
	_, ownerPromotion := f.service.ChangeRole(ctx, "admin", "guest", "owner")
	_, notPermitted := f.service.ChangeRole(ctx, "guest", "guest", "admin")

	messages := map[string]bool{
		guestsOnly.Error():     true,
		ownerPromotion.Error(): true,
		notPermitted.Error():   true,
	}
	assert.Len(t, messages, 3)
	assert.Equal(t, []string{"change_role:denied", "change_role:denied", "change_role:denied"}, f.recorder.outcomes)
}

/*
TestChangeRole_Validation rejects unknown roles and members.
*/
func TestChangeRole_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ChangeRole(ctx, "owner", "guest", "superuser")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = f.service.ChangeRole(ctx, "owner", "ghost", "admin")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = f.service.ChangeRole(ctx, "ghost", "guest", "admin")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// Role input is normalized.
	_, err = f.service.ChangeRole(ctx, "owner", "guest", " Admin ")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, f.role(t, "guest"))
}

/*
TestChangeRole_SelfDemotion recomputes capabilities with the new role.
*/
func TestChangeRole_SelfDemotion(t *testing.T) {
	f := newFixture(t)

	snapshot, err := f.service.ChangeRole(context.Background(), "owner", "owner", "admin")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, snapshot.ActorRole)
	for _, row := range snapshot.Users {
		assert.False(t, row.CanDelete)
	}
}

/*
TestDelete_OwnerOnly lets only owners delete, then reloads.
*/
func TestDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, actor := range []string{"admin", "guest"} {
		_, err := f.service.Delete(ctx, actor, "guest")
		assert.True(t, apperr.HasCode(err, "OWNER_ONLY"), actor)
	}

	snapshot, err := f.service.Delete(ctx, "owner", "guest")
	require.NoError(t, err)
	require.Len(t, snapshot.Users, 3)
	for _, row := range snapshot.Users {
		assert.NotEqual(t, "guest", row.ID)
	}

	_, err = f.service.Delete(ctx, "owner", "guest")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	assert.Equal(t, []string{"delete_user:denied", "delete_user:denied", "delete_user:allowed"}, f.recorder.outcomes)
}

/*
TestList_Capabilities computes per-row capabilities from the actor's role.
*/
func TestList_Capabilities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snapshot, err := f.service.List(ctx, "admin")
	require.NoError(t, err)
	require.Len(t, snapshot.Users, 4)
	assert.Equal(t, []string{"owner", "admin", "admin2", "guest"}, ids(snapshot))

	rows := byID(snapshot)
	assert.False(t, rows["owner"].CanChangeRole)
	assert.Empty(t, rows["admin2"].AssignableRoles)
	assert.True(t, rows["guest"].CanChangeRole)
	assert.Equal(t, []sec.UserRole{sec.RoleAdmin, sec.RoleGuest}, rows["guest"].AssignableRoles)
	assert.False(t, rows["guest"].CanDelete)

	snapshot, err = f.service.List(ctx, "owner")
	require.NoError(t, err)
	rows = byID(snapshot)
	assert.Equal(t, sec.Roles, rows["admin"].AssignableRoles)
	assert.True(t, rows["admin"].CanDelete)

	_, err = f.service.List(ctx, "guest")
	assert.True(t, apperr.HasCode(err, "ROLE_NOT_PERMITTED"))
}

func ids(snapshot *member.Snapshot) []string {
	out := make([]string, 0, len(snapshot.Users))
	for _, row := range snapshot.Users {
		out = append(out, row.ID)
	}
	return out
}

func byID(snapshot *member.Snapshot) map[string]member.Row {
	out := make(map[string]member.Row, len(snapshot.Users))
	for _, row := range snapshot.Users {
		out[row.ID] = row
	}
	return out
}
