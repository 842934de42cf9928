package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/vibeshelf/internal/domain/review"
	"github.com/xiebiao/vibeshelf/internal/domain/user"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type userRepository struct {
	db      *gorm.DB
	timeout QueryTimeout
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB, timeout QueryTimeout) user.Repository {
	return &userRepository{db: db, timeout: timeout}
}

// NewAuthorResolver 书评模块使用的作者解析器，与用户仓储共用实现
func NewAuthorResolver(db *gorm.DB, timeout QueryTimeout) review.AuthorResolver {
	return &userRepository{db: db, timeout: timeout}
}

// Create 创建用户
// 学习要点：
// 1. 邮箱唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
// 2. 捕获唯一索引冲突，转换为业务错误ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	// 1. 领域实体 → GORM模型
	model := toUserModel(u)

	// 2. 插入数据库
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 3. 回填自增ID
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
// 学习要点：邮箱字段有UNIQUE索引，使用First只取一条
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var model UserModel
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 更新用户信息
// 使用Select("*")保证OTP被清空（nil）时也会写入NULL
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	model := toUserModel(u)
	if err := getDB(ctx, r.db).Model(model).Select("*").Omit("created_at").Updates(model).Error; err != nil {
		return apperrors.Wrap(err, "更新用户失败")
	}

	u.UpdatedAt = model.UpdatedAt
	return nil
}

// ResolveAuthor 按邮箱解析书评作者（实现review.AuthorResolver）
func (r *userRepository) ResolveAuthor(ctx context.Context, email string) (*review.Author, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &review.Author{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Verified:  u.Verified,
		OTP:       u.OTP,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Password:  model.Password,
		Verified:  model.Verified,
		OTP:       model.OTP,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
