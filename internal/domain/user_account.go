package domain

import "time"

// UserAccount 登录凭证记录（对应 user_auth 表）
// 首次见到某个 user_id 时由 ingestion 自动开通（provisioning）。
// user_id 上有 UNIQUE 约束：并发开通冲突按"已存在，忽略"处理。
type UserAccount struct {
	ID        int64  `db:"id"`
	UserID    string `db:"user_id"` // TEXT, UNIQUE NOT NULL
	PwdHash   string `db:"pwd_hash"` // sha256 hex
	Role      string `db:"role"`     // 'user' | 'admin'
	IsPrivate int    `db:"is_private"`

	CreatedAt time.Time `db:"created_at"`
}
