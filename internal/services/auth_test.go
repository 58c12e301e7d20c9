package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/pkg/pointers"
	"github.com/yungbote/nodetree-backend/internal/platform/ctxutil"
)

func TestRegisterForcesDefaults(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	u, err := env.auth.Register(bg(), types.NewUser{Username: "gina", Password: "hunter22", IsStaff: true})
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.False(t, u.IsStaff)
}

func TestLoginAndTokenContext(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	u, err := env.users.Create(bg(), types.NewUser{Username: "hank", Password: "hunter22", IsActive: true, IsStaff: true})
	require.NoError(t, err)

	_, err = env.auth.Login(bg(), "hank", "wrongpass")
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
	_, err = env.auth.Login(bg(), "nobody", "hunter22")
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	s, err := env.auth.Login(bg(), "hank", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, s.AccessToken)
	require.NotEmpty(t, s.RefreshToken)
	require.Equal(t, int64(time.Hour/time.Second), s.ExpiresIn)
	require.NotNil(t, s.User.LastLogin)

	ctx, err := env.auth.SetContextFromToken(context.Background(), s.AccessToken)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	require.Equal(t, u.UserID, rd.UserID)
	require.True(t, rd.IsStaff)
	require.Equal(t, s.RefreshToken, rd.RefreshToken)

	_, err = env.auth.SetContextFromToken(context.Background(), "not-a-jwt")
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	require.NoError(t, env.auth.Logout(dbctx.Context{Ctx: ctx}))
	_, err = env.auth.SetContextFromToken(context.Background(), s.AccessToken)
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized), "logged out tokens are rejected")

	require.True(t, apperr.IsCode(env.auth.Logout(bg()), apperr.CodeUnauthorized))
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	_, err := env.users.Create(bg(), types.NewUser{Username: "ivan", Password: "hunter22"})
	require.NoError(t, err)

	_, err = env.auth.Login(bg(), "ivan", "hunter22")
	require.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestDeactivationInvalidatesAccessToken(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	u, _ := env.auth.Register(bg(), types.NewUser{Username: "judy", Password: "hunter22"})
	s, err := env.auth.Login(bg(), "judy", "hunter22")
	require.NoError(t, err)

	_, err = env.users.Update(bg(), u.UserID, types.UserPatch{IsActive: pointers.Bool(false)})
	require.NoError(t, err)
	_, err = env.auth.SetContextFromToken(context.Background(), s.AccessToken)
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

func TestRefreshRotatesToken(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	_, _ = env.auth.Register(bg(), types.NewUser{Username: "kate", Password: "hunter22"})
	s, err := env.auth.Login(bg(), "kate", "hunter22")
	require.NoError(t, err)

	next, err := env.auth.Refresh(bg(), s.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, s.RefreshToken, next.RefreshToken)
	require.NotEqual(t, s.AccessToken, next.AccessToken)

	_, err = env.auth.Refresh(bg(), s.RefreshToken)
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized), "a rotated refresh token is single use")

	_, err = env.auth.SetContextFromToken(context.Background(), next.AccessToken)
	require.NoError(t, err)
}

func TestRefreshExpiredTokenIsRemoved(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	u, _ := env.auth.Register(bg(), types.NewUser{Username: "liam", Password: "hunter22"})
	s, err := env.auth.Login(bg(), "liam", "hunter22")
	require.NoError(t, err)

	as := env.auth.(*authService)
	as.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	_, err = env.auth.Refresh(bg(), s.RefreshToken)
	require.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	tokens, err := env.userTokenRepo.GetByUserIDs(bg(), []int64{u.UserID})
	require.NoError(t, err)
	require.Empty(t, tokens)
}
