package service

import (
	"context"
	"fmt"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"

	"go.uber.org/zap"
)

// AccountProvisioner 首见主体的账号开通。
// 先做存在性检查再插入；user_auth.user_id 的 UNIQUE 约束兜底并发竞争，
// 冲突按"已开通，忽略"处理。
type AccountProvisioner struct {
	accounts repository.AccountsRepository
	logger   *zap.Logger
}

func NewAccountProvisioner(accounts repository.AccountsRepository, logger *zap.Logger) *AccountProvisioner {
	return &AccountProvisioner{accounts: accounts, logger: logger}
}

// EnsureAccount 确保 userID 已开通；新账号用 seedPassword 的哈希做初始凭证。
func (p *AccountProvisioner) EnsureAccount(ctx context.Context, userID, seedPassword string) error {
	exists, err := p.accounts.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if exists {
		return nil
	}

	created, err := p.accounts.CreateIfAbsent(ctx, userID, HashPassword(seedPassword), "user")
	if err != nil {
		return err
	}
	if created {
		p.logger.Info("Provisioned account for new subject", zap.String("user_id", userID))
	}
	return nil
}
