package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 嵌套调用复用外层事务
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn函数内通过ctx执行的Repository操作都在同一事务中;
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT
//
// 使用示例(OTP校验):
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    u, err := userRepo.FindByEmail(ctx, email)
//	    if err != nil {
//	        return err
//	    }
//	    if !u.MatchOTP(otp) {
//	        return user.ErrInvalidOTP // 自动回滚
//	    }
//	    u.MarkVerified()
//	    return userRepo.Update(ctx, u)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		// 已在事务中,直接复用
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
