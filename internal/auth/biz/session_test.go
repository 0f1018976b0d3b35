package biz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/auth/biz"
	"github.com/lk2023060901/yoga-studio-backend/internal/auth/data"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/testutil"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	userdata "github.com/lk2023060901/yoga-studio-backend/internal/user/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sessions *biz.SessionUseCase
	users    *userbiz.UserUseCase
	admin    *userbiz.User
}

func setup(t *testing.T, deny biz.DenyList) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &userdata.UserPO{})
	repo := userdata.NewUserRepo(db)
	users := userbiz.NewUserUseCase(repo, logger.NewNop())

	admin, err := users.CreateUser(context.Background(), userbiz.UserInput{Name: "Owner", Email: "owner@studio.test", Password: "correct horse"})
	require.NoError(t, err)

	tokens := biz.NewTokenManager("test-secret", "yoga-studio", time.Hour)
	return &fixture{
		sessions: biz.NewSessionUseCase(repo, tokens, deny, logger.NewNop()),
		users:    users,
		admin:    admin,
	}
}

func TestSignInAndCurrentUser(t *testing.T) {
	f := setup(t, data.NewMemoryDenyList())
	ctx := context.Background()

	sess, err := f.sessions.SignIn(ctx, " OWNER@studio.test", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, f.admin.ID, sess.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	assert.True(t, f.sessions.IsAuthenticated(ctx, sess.Token))
	user := f.sessions.CurrentUser(ctx, sess.Token)
	require.NotNil(t, user)
	assert.Equal(t, "owner@studio.test", user.Email)
}

func TestSignInRejectionsLookAlike(t *testing.T) {
	f := setup(t, data.NewMemoryDenyList())
	ctx := context.Background()

	_, wrongPassword := f.sessions.SignIn(ctx, "owner@studio.test", "wrong")
	_, unknownUser := f.sessions.SignIn(ctx, "nobody@studio.test", "correct horse")

	for _, err := range []error{wrongPassword, unknownUser} {
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.AuthError))
		assert.Equal(t, wrongPassword.Error(), err.Error())
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	f := setup(t, data.NewMemoryDenyList())
	ctx := context.Background()

	sess, err := f.sessions.SignIn(ctx, "owner@studio.test", "correct horse")
	require.NoError(t, err)

	require.NoError(t, f.sessions.SignOut(ctx, sess.Token))
	assert.False(t, f.sessions.IsAuthenticated(ctx, sess.Token))
	assert.Nil(t, f.sessions.CurrentUser(ctx, sess.Token))

	// a fresh sign-in gets a new jti and works
	again, err := f.sessions.SignIn(ctx, "owner@studio.test", "correct horse")
	require.NoError(t, err)
	assert.True(t, f.sessions.IsAuthenticated(ctx, again.Token))

	assert.NoError(t, f.sessions.SignOut(ctx, "garbage"))
	assert.NoError(t, f.sessions.SignOut(ctx, ""))
}

func TestSignOutWithRedisDenyList(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	f := setup(t, data.NewDenyList(client, logger.NewNop()))
	ctx := context.Background()

	sess, err := f.sessions.SignIn(ctx, "owner@studio.test", "correct horse")
	require.NoError(t, err)
	require.NoError(t, f.sessions.SignOut(ctx, sess.Token))
	assert.False(t, f.sessions.IsAuthenticated(ctx, sess.Token))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Greater(t, mr.TTL(keys[0]), 59*time.Minute)
}

func TestCurrentUserNeverFails(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	f := setup(t, data.NewDenyList(client, logger.NewNop()))
	ctx := context.Background()

	sess, err := f.sessions.SignIn(ctx, "owner@studio.test", "correct horse")
	require.NoError(t, err)

	assert.Nil(t, f.sessions.CurrentUser(ctx, ""))
	assert.Nil(t, f.sessions.CurrentUser(ctx, "not-a-token"))

	// deny list unreachable
	mr.Close()
	assert.False(t, f.sessions.IsAuthenticated(ctx, sess.Token))
}

func TestCurrentUserForDeletedAccount(t *testing.T) {
	f := setup(t, data.NewMemoryDenyList())
	ctx := context.Background()

	sess, err := f.sessions.SignIn(ctx, "owner@studio.test", "correct horse")
	require.NoError(t, err)

	_, err = f.users.DeleteUser(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.Nil(t, f.sessions.CurrentUser(ctx, sess.Token))
}

func TestSignInDisabledWithoutSecret(t *testing.T) {
	db := testutil.NewDB(t, &userdata.UserPO{})
	uc := biz.NewSessionUseCase(userdata.NewUserRepo(db), biz.NewTokenManager("", "", 0), data.NewMemoryDenyList(), logger.NewNop())

	_, err := uc.SignIn(context.Background(), "owner@studio.test", "x")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrServiceUnavail, apperrors.ExtractCode(err))
}
