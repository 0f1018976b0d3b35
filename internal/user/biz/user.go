package biz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/yoga-studio-backend/internal/content"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/logger"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/pagination"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/validator"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const Entity = "user"

// ErrEmailTaken is returned by CreateUser for a registered email
var ErrEmailTaken = apperrors.NewValidationError("email", "is already registered")

// User 后台管理员账号
type User struct {
	ID           string     `json:"id"` // UUID v7
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type UserInput struct {
	Name     string `json:"name" yaml:"name" validate:"notblank,max=100"`
	Email    string `json:"email" yaml:"email" validate:"required,email,max=255"`
	Password string `json:"password" yaml:"password" validate:"min=8,max=72"`
}

// UserRepo 用户仓储；Get* 无记录时返回 (nil, nil)
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page, pageSize int) ([]*User, int64, error)
	Delete(ctx context.Context, id string) (bool, error)
	UpdateLoginInfo(ctx context.Context, id string, at time.Time) error
}

// UserUseCase 仅供持有服务密钥的调用方使用
type UserUseCase struct {
	repo   UserRepo
	report content.Reporter
	now    func() time.Time
}

func NewUserUseCase(repo UserRepo, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		repo:   repo,
		report: content.NewReporter(Entity, log),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *UserUseCase) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validator.Struct(in); err != nil {
		return nil, err
	}

	start := time.Now()
	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err := uc.report.Query(ctx, "get_by_email", 0, start, err); err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer, "hash password")
	}

	now := uc.now()
	user := &User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	start = time.Now()
	err = uc.repo.Create(ctx, user)
	if err := uc.report.Write(ctx, "create", 0, start, err); err != nil {
		return nil, err
	}

	uc.report.Log.WithContext(ctx).Info("admin user created", zap.String("user_id", user.ID))
	return user, nil
}

// DeleteUser returns false when no user has id
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	deleted, err := uc.repo.Delete(ctx, id)
	if err := uc.report.Write(ctx, "delete", 0, start, err); err != nil {
		return false, err
	}
	if deleted {
		uc.report.Log.WithContext(ctx).Info("admin user deleted", zap.String("user_id", id))
	}
	return deleted, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context, page, pageSize int) (*content.ListResult[*User], error) {
	page, pageSize = pagination.Normalize(page, pageSize)

	start := time.Now()
	items, total, err := uc.repo.List(ctx, page, pageSize)
	if err := uc.report.Query(ctx, "list", 0, start, err); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*User{}
	}
	return &content.ListResult[*User]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
