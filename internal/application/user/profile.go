package user

import (
	"context"

	"github.com/xiebiao/vibeshelf/internal/domain/user"
)

const profileUpdatedMessage = "Profile updated successfully!"

// ProfileUseCase 个人资料用例
// 当前用户由认证中间件写入的邮箱确定
type ProfileUseCase struct {
	userService user.Service
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userService user.Service) *ProfileUseCase {
	return &ProfileUseCase{userService: userService}
}

// Get 查询当前用户资料
func (uc *ProfileUseCase) Get(ctx context.Context, email string) (*ProfileResponse, error) {
	u, err := uc.userService.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Verified: u.Verified,
	}, nil
}

// Update 修改用户名；username为nil表示不修改
func (uc *ProfileUseCase) Update(ctx context.Context, email string, username *string) (*UpdateProfileResponse, error) {
	u, err := uc.userService.UpdateProfile(ctx, email, username)
	if err != nil {
		return nil, err
	}
	return &UpdateProfileResponse{
		Success: true,
		Message: profileUpdatedMessage,
		User: ProfileSummary{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
		},
	}, nil
}

// ProfileResponse 资料查询响应
type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// ProfileSummary 资料更新后返回的用户摘要
type ProfileSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfileResponse 资料更新响应
type UpdateProfileResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	User    ProfileSummary `json:"user"`
}
