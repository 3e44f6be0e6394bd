package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
)

// PostgresAccountsRepository 登录凭证 Repository 实现（user_auth 表）
type PostgresAccountsRepository struct {
	db *sql.DB
}

// NewPostgresAccountsRepository 创建凭证 Repository
func NewPostgresAccountsRepository(db *sql.DB) *PostgresAccountsRepository {
	return &PostgresAccountsRepository{db: db}
}

// 确保实现了接口
var _ AccountsRepository = (*PostgresAccountsRepository)(nil)

// Exists user_id 是否已开通
func (r *PostgresAccountsRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_auth WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// CreateIfAbsent 开通账号。user_id 上的 UNIQUE 约束兜底并发开通：
// 冲突即"已开通，忽略"，返回是否实际新建。
func (r *PostgresAccountsRepository) CreateIfAbsent(ctx context.Context, userID, pwdHash, role string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user_auth (user_id, pwd_hash, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, pwdHash, role,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetByUserID 按 user_id 查询（不存在 → nil, nil）
func (r *PostgresAccountsRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserAccount, error) {
	query := `
		SELECT id, user_id, COALESCE(pwd_hash, ''), COALESCE(role, 'user'), COALESCE(is_private, 0), created_at
		FROM user_auth
		WHERE user_id = $1
	`

	var account domain.UserAccount
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.PwdHash,
		&account.Role,
		&account.IsPrivate,
		&account.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
