package biz

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	userbiz "github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserInfo 会话对应的管理员信息
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session 登录成功后返回的会话
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

// DenyList 已注销令牌的 jti 黑名单
type DenyList interface {
	Deny(ctx context.Context, jti string, ttl time.Duration) error
	Denied(ctx context.Context, jti string) (bool, error)
}

// SessionUseCase 会话服务：登录、注销与会话查询
type SessionUseCase struct {
	users  userbiz.UserRepo
	tokens *TokenManager
	deny   DenyList
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewSessionUseCase(users userbiz.UserRepo, tokens *TokenManager, deny DenyList, log *logger.Logger) *SessionUseCase {
	return &SessionUseCase{
		users:  users,
		tokens: tokens,
		deny:   deny,
		log:    log.Named("session"),
	}
}

func invalidCredentials() error {
	return apperrors.New(apperrors.ErrAuth)
}

// dummy is compared against when the email is unknown so both paths cost one bcrypt run
func (uc *SessionUseCase) dummy() []byte {
	uc.dummyOnce.Do(func() {
		secret := make([]byte, 32)
		_, _ = rand.Read(secret)
		// 32 bytes is under bcrypt's 72 byte limit, so this cannot fail
		uc.dummyHash, _ = bcrypt.GenerateFromPassword(secret, bcrypt.DefaultCost)
	})
	return uc.dummyHash
}

// SignIn checks the credentials and issues a session token. Every rejection
// is the same AuthError.
func (uc *SessionUseCase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if !uc.tokens.Enabled() {
		return nil, apperrors.New(apperrors.ErrServiceUnavail, "sign-in is not configured")
	}

	email = userbiz.NormalizeEmail(email)
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		uc.log.WithContext(ctx).Error("sign-in user lookup failed", zap.Error(err))
		user = nil
	}

	hash := uc.dummy()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if user == nil || cmpErr != nil {
		uc.log.WithContext(ctx).Info("sign-in rejected")
		return nil, invalidCredentials()
	}

	token, claims, err := uc.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer, "issue session")
	}

	if err := uc.users.UpdateLoginInfo(ctx, user.ID, time.Now().UTC()); err != nil {
		uc.log.WithContext(ctx).Warn("failed to record login", zap.String("user_id", user.ID), zap.Error(err))
	}

	uc.log.WithContext(ctx).Info("signed in", zap.String("user_id", user.ID))
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      UserInfo{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

// SignOut denies the token's jti until it would have expired. A token that
// no longer parses is already unusable and needs nothing.
func (uc *SessionUseCase) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := uc.deny.Deny(ctx, claims.ID, ttl); err != nil {
		uc.log.WithContext(ctx).Error("failed to revoke session", zap.String("user_id", claims.UserID), zap.Error(err))
		return apperrors.Wrap(err, apperrors.ErrServiceUnavail, "revoke session")
	}

	uc.log.WithContext(ctx).Info("signed out", zap.String("user_id", claims.UserID))
	return nil
}

// IsAuthenticated never fails; any lookup problem means false
func (uc *SessionUseCase) IsAuthenticated(ctx context.Context, token string) bool {
	return uc.CurrentUser(ctx, token) != nil
}

// CurrentUser returns nil for a missing, invalid, revoked or orphaned token
func (uc *SessionUseCase) CurrentUser(ctx context.Context, token string) *UserInfo {
	if token == "" {
		return nil
	}
	claims, err := uc.tokens.Parse(token)
	if err != nil {
		return nil
	}

	denied, err := uc.deny.Denied(ctx, claims.ID)
	if err != nil {
		uc.log.WithContext(ctx).Warn("session deny list lookup failed", zap.Error(err))
		return nil
	}
	if denied {
		return nil
	}

	user, err := uc.users.GetByID(ctx, claims.UserID)
	if err != nil {
		uc.log.WithContext(ctx).Warn("session user lookup failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Email: user.Email}
}
