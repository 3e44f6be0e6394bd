package repository

import (
	"context"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/domain"
)

// ReadingFilters 读数范围查询过滤条件
type ReadingFilters struct {
	From     *time.Time
	To       *time.Time
	Activity string // 子串匹配（不区分大小写）
}

// ReadingsRepository 规范化读数的持久化接口
type ReadingsRepository interface {
	// InsertReading 单条写入，返回库内 ID
	InsertReading(ctx context.Context, r *domain.Reading) (int64, error)

	// InsertReadingsBatch 批量写入（单事务，失败整体回滚，保持源行序）
	InsertReadingsBatch(ctx context.Context, readings []*domain.Reading) error

	// GetByTimeRange 某主体在 [start, end] 内的读数（recorded_at 升序）
	GetByTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Reading, error)

	// GetLatestReading 某主体 recorded_at 最新的一条（无数据 → nil, nil）
	GetLatestReading(ctx context.Context, userID string) (*domain.Reading, error)

	// QueryReadings 过滤查询（分析页），recorded_at 升序，带上限
	QueryReadings(ctx context.Context, userID string, filters ReadingFilters, limit int) ([]*domain.Reading, error)

	// ListRecent 最近 N 条（recorded_at 降序，报表用）
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Reading, error)

	// DistinctUserIDs 库内出现过的全部主体标识
	DistinctUserIDs(ctx context.Context) ([]string, error)
}

// HealthScoresRepository 每日评分的持久化接口（追加写）
type HealthScoresRepository interface {
	InsertScore(ctx context.Context, s *domain.HealthScore) (int64, error)
	ListScores(ctx context.Context, userID string, limit int) ([]*domain.HealthScore, error)
	// GetLatestScore 按 score_date 最新的一条（无数据 → nil, nil）
	GetLatestScore(ctx context.Context, userID string) (*domain.HealthScore, error)
}

// AccountsRepository 登录凭证（user_auth）接口
type AccountsRepository interface {
	Exists(ctx context.Context, userID string) (bool, error)
	// CreateIfAbsent 开通账号；user_id 冲突按"已存在"处理，返回是否新建
	CreateIfAbsent(ctx context.Context, userID, pwdHash, role string) (bool, error)
	GetByUserID(ctx context.Context, userID string) (*domain.UserAccount, error)
}
