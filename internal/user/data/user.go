package data

import (
	"context"
	"time"

	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/database"
	"github.com/lk2023060901/yoga-studio-backend/internal/user/biz"
	"gorm.io/gorm"
)

// UserPO 管理员账号数据库模型
type UserPO struct {
	ID           string `gorm:"size:36;primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`
	PasswordHash string `gorm:"size:255;not null"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserPO) TableName() string {
	return "users"
}

type UserRepo struct {
	db *database.DB
}

func NewUserRepo(db *database.DB) biz.UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *biz.User) error {
	po := &UserPO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	return r.db.WithContext(ctx).GetDB().Create(po).Error
}

func (r *UserRepo) first(ctx context.Context, query interface{}, args ...interface{}) (*biz.User, error) {
	var po UserPO
	if err := r.db.WithContext(ctx).GetDB().Where(query, args...).First(&po).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return toUser(&po), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*biz.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*biz.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) List(ctx context.Context, page, pageSize int) ([]*biz.User, int64, error) {
	result, err := database.FindPage[UserPO](ctx, r.db.GetDB(), page, pageSize, database.OrderBy("created_at", false))
	if err != nil {
		return nil, 0, err
	}
	items := make([]*biz.User, len(result.Items))
	for i := range result.Items {
		items[i] = toUser(&result.Items[i])
	}
	return items, result.Total, nil
}

// Delete 软删除
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).GetDB().Where("id = ?", id).Delete(&UserPO{})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepo) UpdateLoginInfo(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).GetDB().
		Model(&UserPO{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func toUser(po *UserPO) *biz.User {
	return &biz.User{
		ID:           po.ID,
		Name:         po.Name,
		Email:        po.Email,
		PasswordHash: po.PasswordHash,
		LastLoginAt:  po.LastLoginAt,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}
