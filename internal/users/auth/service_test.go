// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
)

func init() {
	sec.PasswordCost = bcrypt.MinCost
}

type fixture struct {
	store       *docstore.MemoryStore
	redis       *miniredis.Miniredis
	users       *auth.DocumentUserRepository
	credentials *auth.DocumentCredentialRepository
	tokens      *sec.TokenService
	service     *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := docstore.NewMemoryStore(auth.UniqueFields()...)
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer)

	users := auth.NewUserRepository(store)
	credentials := auth.NewCredentialRepository(store)

	return &fixture{
		store:       store,
		redis:       server,
		users:       users,
		credentials: credentials,
		tokens:      tokens,
		service:     auth.NewService(users, credentials, auth.NewResetTokenRepository(client), tokens),
	}
}

func (f *fixture) register(t *testing.T, name, email, password string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return user
}

/*
TestRegister creates a guest profile and a credential under the same id.
*/
func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register(t, " Ana ", "Ana@Example.com ", "secret1")
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, sec.RoleGuest, user.Role)
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleGuest, stored.Role)

	credential, err := f.credentials.FindByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, credential.ID)
	assert.NotEqual(t, "secret1", credential.PasswordHash)

	_, err = f.service.Register(ctx, auth.RegisterInput{Name: "Other", Email: "ana@example.com", Password: "secret2"})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestRegister_ProfileFailure removes the credential when the profile cannot
be written, so the email stays free for the credential side.
*/
func TestRegister_ProfileFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A profile without a credential holds the email in the users collection.
	require.NoError(t, f.users.Create(ctx, &auth.User{ID: "orphan", Name: "Old", Email: "bo@example.com"}))

	_, err := f.service.Register(ctx, auth.RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = f.credentials.FindByEmail(ctx, "bo@example.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, f.users.Delete(ctx, "orphan"))
	user := f.register(t, "Bo", "bo@example.com", "secret1")
	assert.Equal(t, sec.RoleGuest, user.Role)
}

/*
TestLogin covers credential checks, the missing-profile case and the bearer token.
*/
func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ana", "ana@example.com", "secret1")

	result, err := f.service.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	require.NotEmpty(t, result.AccessToken)

	claims, err := f.tokens.VerifyToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = f.service.Login(ctx, "ana@example.com", "wrong-password")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	// Credential without profile.
	require.NoError(t, f.users.Delete(ctx, user.ID))
	_, err = f.service.Login(ctx, "ana@example.com", "secret1")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, auth.CodeNotRegistered))
	assert.Equal(t, auth.MessageNotRegistered, err.Error())
}

/*
TestLogin_WithoutTokens signs in with the cookie session only.
*/
func TestLogin_WithoutTokens(t *testing.T) {
	store := docstore.NewMemoryStore(auth.UniqueFields()...)
	users := auth.NewUserRepository(store)
	credentials := auth.NewCredentialRepository(store)
	service := auth.NewService(users, credentials, auth.DisabledResetTokenRepository{}, nil)

	_, err := service.Register(context.Background(), auth.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := service.Login(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Empty(t, result.AccessToken)

	_, err = service.RequestPasswordReset(context.Background(), "ana@example.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))
}

/*
TestPasswordReset stores a hashed one-hour token and consumes it once.
*/
func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ana", "ana@example.com", "secret1")

	token, err := f.service.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)

	token, err = f.service.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	key := constants.RedisPrefixResetToken + sec.HashToken(token)
	assert.True(t, f.redis.Exists(key))
	assert.Equal(t, auth.ResetTokenTTL, f.redis.TTL(key))
	stored, err := f.redis.Get(key)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored)

	require.NoError(t, f.service.ResetPassword(ctx, token, "new-secret"))
	assert.False(t, f.redis.Exists(key))

	_, err = f.service.Login(ctx, "ana@example.com", "new-secret")
	require.NoError(t, err)

	err = f.service.ResetPassword(ctx, token, "another")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestPasswordReset_Expired rejects tokens past their TTL.
*/
func TestPasswordReset_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", "ana@example.com", "secret1")

	token, err := f.service.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)

	f.redis.FastForward(auth.ResetTokenTTL + time.Second)

	err = f.service.ResetPassword(ctx, token, "new-secret")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestChangePassword requires the current password.
*/
func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ana", "ana@example.com", "secret1")

	err := f.service.ChangePassword(ctx, user.ID, "wrong", "new-secret")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	require.NoError(t, f.service.ChangePassword(ctx, user.ID, "secret1", "new-secret"))

	_, err = f.service.Login(ctx, "ana@example.com", "secret1")
	assert.Error(t, err)
	_, err = f.service.Login(ctx, "ana@example.com", "new-secret")
	assert.NoError(t, err)
}

/*
TestChangeEmail moves both the credential and the profile.
*/
func TestChangeEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Ana", "ana@example.com", "secret1")
	f.register(t, "Bia", "bia@example.com", "secret2")

	_, err := f.service.ChangeEmail(ctx, user.ID, "wrong", "ana2@example.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.ChangeEmail(ctx, user.ID, "secret1", "BIA@example.com")
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	updated, err := f.service.ChangeEmail(ctx, user.ID, "secret1", "Ana2@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana2@example.com", updated.Email)
	require.NotNil(t, updated.UpdatedAt)

	_, err = f.service.Login(ctx, "ana2@example.com", "secret1")
	assert.NoError(t, err)
	_, err = f.service.Login(ctx, "ana@example.com", "secret1")
	assert.Error(t, err)

	// Same email is a no-op.
	again, err := f.service.ChangeEmail(ctx, user.ID, "secret1", "ana2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana2@example.com", again.Email)
}
